package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehmtravel/backoffice/internal/localstore"
	"github.com/ehmtravel/backoffice/internal/navigation"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session with navigation and notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		warmUpCaches(cmd.Context(), a)
		fmt.Println(`Type "help" for commands.`)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Printf("[%s] > ", a.nav.CurrentPage())
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				return nil
			}
			runConsoleCommand(cmd, a, line)
		}
	},
}

func runConsoleCommand(cmd *cobra.Command, a *app, line string) {
	fields := strings.Fields(line)
	verb, rest := fields[0], fields[1:]

	switch verb {
	case "help":
		fmt.Println(`commands:
  open <page>            switch page (submenu follows automatically)
  toggle <submenu>       open/close a sidebar submenu
  menu user|notifications  toggle the header menus
  list <kind> [query]    list cached records, optionally filtered
  refresh <kind>         re-fetch a collection from the backend
  notifications          show the feed
  read-all               mark every notification read
  dark on|off            toggle the dark-mode setting
  settings [json]        show or replace the settings blob
  quit`)
	case "open":
		if len(rest) != 1 {
			fmt.Println("usage: open <page>")
			return
		}
		a.nav.SetCurrentPage(navigation.Page(rest[0]))
		fmt.Printf("page=%s submenu=%s\n", a.nav.CurrentPage(), a.nav.OpenSubmenu())
	case "toggle":
		if len(rest) != 1 {
			fmt.Println("usage: toggle <submenu>")
			return
		}
		a.nav.Toggle(navigation.Submenu(rest[0]))
		fmt.Printf("submenu=%s\n", a.nav.OpenSubmenu())
	case "menu":
		if len(rest) != 1 {
			fmt.Println("usage: menu user|notifications")
			return
		}
		switch rest[0] {
		case "user":
			a.nav.ToggleUserMenu()
		case "notifications":
			a.nav.ToggleNotificationsMenu()
		default:
			fmt.Println("usage: menu user|notifications")
			return
		}
		fmt.Printf("user-menu=%t notifications-menu=%t\n", a.nav.UserMenuOpen(), a.nav.NotificationsMenuOpen())
	case "list":
		if len(rest) < 1 {
			fmt.Println("usage: list <kind> [query]")
			return
		}
		facade, err := openFacade(a, rest[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		query := strings.Join(rest[1:], " ")
		printRecords(facade, facade.List(query))
	case "refresh":
		if len(rest) != 1 {
			fmt.Println("usage: refresh <kind>")
			return
		}
		facade, err := openFacade(a, rest[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		records, err := facade.Load(cmd.Context())
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("%d %s\n", len(records), facade.Kind())
	case "notifications":
		items := a.feed.All()
		if len(items) == 0 {
			fmt.Println("No notifications")
			return
		}
		for _, n := range items {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, n.Time.Format("15:04:05"), n.TitleKey, n.ID)
		}
		fmt.Printf("%d unread\n", a.feed.UnreadCount())
	case "read-all":
		a.feed.MarkAllRead()
		fmt.Println("All notifications read")
	case "dark":
		if len(rest) != 1 || (rest[0] != "on" && rest[0] != "off") {
			fmt.Println("usage: dark on|off")
			return
		}
		if err := a.local.Set(localstore.KeyDarkMode, fmt.Sprint(rest[0] == "on")); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("dark mode %s\n", rest[0])
	case "settings":
		if len(rest) == 0 {
			value, ok, err := a.local.Get(localstore.KeySettings)
			if err != nil {
				fmt.Println(err)
				return
			}
			if !ok {
				fmt.Println("{}")
				return
			}
			fmt.Println(value)
			return
		}
		raw := strings.Join(rest, " ")
		if !json.Valid([]byte(raw)) {
			fmt.Println("settings must be valid JSON")
			return
		}
		if err := a.local.Set(localstore.KeySettings, raw); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("Settings saved")
	default:
		fmt.Printf("unknown command %q, try help\n", verb)
	}
}
