package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories/postgres"
	"github.com/psf-initiatives/admin-api/services/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword reads a line from the terminal without echo
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard admins",
		Long:  "Create and list the accounts that can sign in to the admin dashboard.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// ---------- admin create ----------

type adminCreateOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func newAdminCreateCmd() *cobra.Command {
	var opts adminCreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin",
		Example: `  psf-admin admin create --email ops@psf.org --first-name Ada --last-name Obi
  psf-admin admin create --email root@psf.org --role superadmin  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthService(cmd.Context(), func(svc *auth.Service) error {
				return runAdminCreate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), svc, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&opts.Role, "role", string(models.RoleAdmin), "admin, or superadmin while none exists")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(ctx context.Context, out, prompt io.Writer, svc *auth.Service, opts adminCreateOptions) error {
	if !strings.Contains(opts.Email, "@") {
		return fmt.Errorf("invalid email address: %q", opts.Email)
	}

	if opts.Password == "" {
		fmt.Fprint(prompt, "Password: ")
		password, err := readPassword()
		fmt.Fprintln(prompt)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Fprint(prompt, "Confirm password: ")
		confirm, err := readPassword()
		fmt.Fprintln(prompt)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		opts.Password = password
	}

	in := auth.RegisterInput{
		Email:     opts.Email,
		Password:  opts.Password,
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
		Role:      opts.Role,
	}

	// a superadmin is only created here while none exists
	var (
		resp *auth.TokenResponse
		err  error
	)
	if opts.Role == string(models.RoleSuperadmin) {
		resp, err = svc.BootstrapSuperadmin(ctx, in)
	} else {
		resp, err = svc.Register(ctx, in)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s %q (id %s)\n", resp.User.Role, resp.User.Email, resp.User.ID)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthService(cmd.Context(), func(svc *auth.Service) error {
				return runAdminList(cmd.Context(), cmd.OutOrStdout(), svc, jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(ctx context.Context, out io.Writer, svc *auth.Service, jsonOutput bool) error {
	admins, err := svc.ListAdmins(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Fprintln(out, "No admins yet. Use 'psf-admin admin create' to create one.")
		return nil
	}

	fmt.Fprintf(out, "%-30s %-24s %-11s %-6s\n", "EMAIL", "NAME", "ROLE", "ACTIVE")
	fmt.Fprintf(out, "%-30s %-24s %-11s %-6s\n", "-----", "----", "----", "------")
	for _, a := range admins {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		fmt.Fprintf(out, "%-30s %-24s %-11s %-6s\n", a.Email, a.FullName, a.Role, active)
	}
	return nil
}

// withAuthService opens the database and runs fn against an auth service over it
func withAuthService(ctx context.Context, fn func(*auth.Service) error) error {
	cfg, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return err
	}
	defer factory.Close()

	repos := factory.NewRepositories()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, auth.NewMemoryRevocationStore(),
		auth.WithLifetimes(cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL))
	return fn(auth.NewService(repos.Admins, factory.GetTransactionManager(), tokens, logger))
}
