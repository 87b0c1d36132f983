// accessctl is the operator CLI for invite administration.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/launchcopy/accessgate/internal/config"
	"github.com/launchcopy/accessgate/internal/gormw"
	"github.com/launchcopy/accessgate/internal/idp"
	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

const defaultInviteTTLDays = 7

var (
	configPath string

	inviteEmail   string
	inviteTTLDays uint
	skipEmail     bool
	inviteID      string
)

var rootCmd = &cobra.Command{
	Use:   "accessctl",
	Short: "Manage invites for the access gate",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Invite an email to the platform",
	RunE:  runCreate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all invites",
	RunE:  runList,
}

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Delete an invite by id",
	RunE:  runRevoke,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to configuration file")

	createCmd.Flags().StringVar(&inviteEmail, "email", "", "Email to invite")
	createCmd.Flags().UintVar(&inviteTTLDays, "ttl", defaultInviteTTLDays, "Invite validity in days, 0 for no expiry")
	createCmd.Flags().BoolVar(&skipEmail, "skip-email", false, "Create the invite without sending the sign-in link")
	_ = createCmd.MarkFlagRequired("email")

	revokeCmd.Flags().StringVar(&inviteID, "id", "", "Invite id to revoke")
	_ = revokeCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(createCmd, listCmd, revokeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *gormw.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("config path must be provided via CONFIG_PATH env var or --config flag")
	}

	cfg := config.LoadConfig(configPath)

	db, err := gormw.Open(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return cfg, db, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}

	email := models.NormalizeEmail(inviteEmail)
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("invalid email %q", inviteEmail)
	}

	invite := &models.UserInvite{
		ID:     uuid.NewString(),
		Email:  email,
		Status: models.InviteStatusSent,
		SentAt: time.Now(),
	}
	if inviteTTLDays > 0 {
		expires := time.Now().AddDate(0, 0, int(inviteTTLDays))
		invite.ExpiresAt = &expires
	}

	if err := storage.CreateInvite(db, invite); err != nil {
		return fmt.Errorf("create invite: %w", err)
	}

	if !skipEmail {
		client := idp.New(&cfg.IDP)
		redirectTo := client.SiteURL() + "/signup?invite_id=" + url.QueryEscape(invite.ID)
		if err := client.GenerateMagicLink(context.Background(), email, redirectTo); err != nil {
			return fmt.Errorf("invite %s created but sending the sign-in link failed: %w", invite.ID, err)
		}
	}

	fmt.Printf("invite %s created for %s\n", invite.ID, email)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}

	invites, err := storage.ListInvites(db)
	if err != nil {
		return fmt.Errorf("list invites: %w", err)
	}

	for _, inv := range invites {
		expires := "never"
		if inv.ExpiresAt != nil {
			expires = inv.ExpiresAt.Format(time.RFC3339)
		}
		fmt.Printf("%s\t%s\t%s\texpires=%s\n", inv.ID, inv.Email, inv.Status, expires)
	}
	return nil
}

func runRevoke(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}

	if err := storage.DeleteInvite(db, inviteID); err != nil {
		return fmt.Errorf("revoke invite: %w", err)
	}

	fmt.Printf("invite %s revoked\n", inviteID)
	return nil
}
