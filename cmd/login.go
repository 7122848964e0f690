package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/localstore"
	"github.com/ehmtravel/backoffice/internal/session"
	"github.com/ehmtravel/backoffice/pkg/logger"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the back-office API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		dto := session.LoginDTO{Username: loginUsername, Password: loginPassword}
		if verr := dto.Validate(); verr != nil {
			return verr
		}

		ctx := cmd.Context()
		var data session.LoginData
		if err := a.gateway.Post(ctx, "/auth/login", dto, &data); err != nil {
			return err
		}

		sess, err := a.session.Login(data)
		if err != nil {
			return err
		}

		warmUpCaches(ctx, a)

		fmt.Printf("Logged in as %s (%s)\n", sess.User.UserName, sess.User.Role)
		return nil
	},
}

// warmUpCaches populates the session's working set concurrently. A failed
// fetch is reported but does not roll the login back.
func warmUpCaches(ctx context.Context, a *app) {
	err := a.caches.WarmUp(ctx,
		entity.KindUsers,
		entity.KindRoles,
		entity.KindReservations,
		entity.KindSuppliers,
	)
	if err != nil {
		logger.L().Warn("cache warm-up incomplete", "error", err)
	}
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		a.session.Logout()
		a.caches.Clear()
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		sess := a.session.Restore()
		if !sess.IsLoggedIn {
			fmt.Println("Not logged in")
			return nil
		}

		u := sess.User
		fmt.Printf("%s (%s)\n", u.UserName, u.Username)
		fmt.Printf("  role:        %s\n", u.Role)
		if u.Email != "" {
			fmt.Printf("  email:       %s\n", u.Email)
		}
		if u.Branch != "" {
			fmt.Printf("  branch:      %s\n", u.Branch)
		}
		if u.Department != "" {
			fmt.Printf("  department:  %s\n", u.Department)
		}
		if len(u.Permissions) > 0 {
			fmt.Printf("  permissions: %s\n", strings.Join(u.Permissions, ", "))
		}

		showUsersSnapshot(a)
		return nil
	},
}

// showUsersSnapshot surfaces the offline fallback copy of the user list
// when one was taken during a previous session.
func showUsersSnapshot(a *app) {
	payload, takenAt, ok, err := a.local.LoadSnapshot(localstore.KeyUsers)
	if err != nil || !ok {
		return
	}
	var records []entity.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return
	}
	fmt.Printf("  cached users: %d (snapshot from %s)\n", len(records), takenAt.Format("2006-01-02 15:04"))
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "operator username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "operator password")
}
