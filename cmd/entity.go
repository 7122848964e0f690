package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/view"
	"github.com/ehmtravel/backoffice/pkg/logger"
)

var (
	entityFilter  string
	entityPayload string
	entityYes     bool
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "CRUD operations over back-office entities",
	Long: `Work with any registered entity kind: ` + kindList() + `.
Every write refreshes the local cache from the backend before returning.`,
}

func kindList() string {
	var names []string
	for _, s := range entity.All() {
		names = append(names, string(s.Kind))
	}
	return strings.Join(names, ", ")
}

func openFacade(a *app, kind string) (*view.Facade, error) {
	return view.New(entity.Kind(kind), a.caches, logger.L())
}

var entityListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List records, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		if _, err := facade.Load(cmd.Context()); err != nil {
			return err
		}
		records := facade.List(entityFilter)
		printRecords(facade, records)
		return nil
	},
}

var entityGetCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		if _, err := facade.Load(cmd.Context()); err != nil {
			return err
		}
		rec, ok := facade.Get(args[1])
		if !ok {
			return internal.ErrRecordNotFound
		}
		line, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(line))
		return nil
	},
}

var entityCreateCmd = &cobra.Command{
	Use:   "create <kind>",
	Short: "Create a record from a JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		payload, err := decodePayload(entityPayload)
		if err != nil {
			return err
		}
		// load first so uniqueness checks see current data
		if _, err := facade.Load(cmd.Context()); err != nil {
			return err
		}
		created, err := facade.Create(cmd.Context(), payload)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s %s\n", facade.Kind(), created.ID())
		return nil
	},
}

var entityUpdateCmd = &cobra.Command{
	Use:   "update <kind> <id>",
	Short: "Update a record from a JSON payload",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		patch, err := decodePayload(entityPayload)
		if err != nil {
			return err
		}
		if _, err := facade.Load(cmd.Context()); err != nil {
			return err
		}
		if _, err := facade.Update(cmd.Context(), args[1], patch); err != nil {
			return err
		}
		fmt.Printf("Updated %s %s\n", facade.Kind(), args[1])
		return nil
	},
}

var entityDeleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete a record (asks for confirmation)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		if !entityYes && !confirm(fmt.Sprintf("Delete %s %s?", facade.Kind(), args[1])) {
			fmt.Println("Aborted")
			return nil
		}
		if err := facade.Delete(cmd.Context(), args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s %s\n", facade.Kind(), args[1])
		return nil
	},
}

var entityExportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Export records to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		facade, err := openFacade(a, args[0])
		if err != nil {
			return err
		}

		if _, err := facade.Load(cmd.Context()); err != nil {
			return err
		}
		filename, data := facade.ExportCSV(entityFilter)
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", filename)
		return nil
	},
}

func decodePayload(raw string) (entity.Record, error) {
	if raw == "" {
		return nil, fmt.Errorf("--data is required")
	}
	var payload entity.Record
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return payload, nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func printRecords(facade *view.Facade, records []entity.Record) {
	if len(records) == 0 {
		fmt.Printf("No %s found\n", facade.Kind())
		return
	}
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		fmt.Println(string(line))
	}
	fmt.Printf("%d %s\n", len(records), facade.Kind())
}

func init() {
	entityCmd.PersistentFlags().StringVarP(&entityFilter, "filter", "f", "", "case-insensitive substring filter")
	entityCmd.PersistentFlags().StringVarP(&entityPayload, "data", "d", "", "JSON payload for create/update")
	entityCmd.PersistentFlags().BoolVarP(&entityYes, "yes", "y", false, "skip confirmation prompts")

	entityCmd.AddCommand(entityListCmd)
	entityCmd.AddCommand(entityGetCmd)
	entityCmd.AddCommand(entityCreateCmd)
	entityCmd.AddCommand(entityUpdateCmd)
	entityCmd.AddCommand(entityDeleteCmd)
	entityCmd.AddCommand(entityExportCmd)
}
