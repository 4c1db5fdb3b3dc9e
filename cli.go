package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/api"
	"github.com/CrestNiraj12/medplus/infra/auth"
	"github.com/CrestNiraj12/medplus/infra/config"
	"github.com/CrestNiraj12/medplus/infra/editor"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui"
)

type cliOptions struct {
	configFile string
	envFile    string
}

// appEnv is the infrastructure shared by every command.
type appEnv struct {
	cfg     config.Config
	log     *logging.Logger
	session *auth.FileSession
	client  *api.Client
}

func (r *appEnv) close() {
	_ = r.log.Close()
}

func setup(v *viper.Viper, opts *cliOptions) (*appEnv, error) {
	cfg, err := config.Load(v, config.Options{ConfigFile: opts.configFile, EnvFile: opts.envFile})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	session := auth.NewFileSession(cfg.Session.Path)
	client := api.NewClient(cfg.API.BaseURL, session,
		api.WithTimeout(cfg.HTTP.Timeout),
		api.WithLogger(log),
	)
	return &appEnv{cfg: cfg, log: log, session: session, client: client}, nil
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	v := viper.New()

	root := &cobra.Command{
		Use:   "medplus",
		Short: "Terminal client for the Medplus health network",
		Long: `Medplus connects patients with trusted medical professionals.
Browse the feed, like and comment on posts, manage friends, and find
a doctor for your symptoms from the terminal.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), v, opts)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.Version = strings.TrimSpace(versionString())

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is $HOME/.config/medplus/config.yaml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("api-url", "", "API base URL (overrides api.base_url)")
	flags.String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	_ = v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newVersionCmd(),
		newUploadCmd(v, opts),
		newLoginCmd(v, opts),
		newLogoutCmd(v, opts),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}

func newUploadCmd(v *viper.Viper, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(v, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			up := api.NewUploader(rt.client, rt.cfg.API.UploadPath, rt.cfg.API.UploadPreset)
			url, err := up.Upload(cmd.Context(), args[0])
			if err != nil {
				rt.log.Error("upload failed", "file", args[0], "err", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newLoginCmd(v *viper.Viper, opts *cliOptions) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token and verify it against the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("--token is required")
			}
			if auth.Expired(token, time.Now()) {
				return errors.New("token has already expired")
			}

			rt, err := setup(v, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.session.Save(domain.Session{Token: token}); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			users := api.NewUserService(rt.client, rt.session, rt.log)
			user, err := users.GetUser(cmd.Context(), "")
			if err != nil {
				if errors.Is(err, domain.ErrSessionExpired) {
					return errors.New("authentication failed")
				}
				return err
			}
			if err := rt.session.Save(domain.Session{Token: token, User: user}); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token issued by the Medplus API")
	return cmd
}

func newLogoutCmd(v *viper.Viper, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(v, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.session.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func runTUI(ctx context.Context, v *viper.Viper, opts *cliOptions) error {
	rt, err := setup(v, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	expired := false
	session, err := rt.session.Load()
	if err != nil {
		rt.log.Warn("unreadable session, starting logged out", "err", err)
		_ = rt.session.Clear()
	} else if session.Authenticated() && auth.Expired(session.Token, time.Now()) {
		rt.log.Info("stored token expired")
		if err := rt.session.Clear(); err != nil {
			rt.log.Error("clearing session failed", "err", err)
		}
		expired = true
	}

	rootModel := tui.NewApp(tui.Deps{
		Posts:          api.NewPostService(rt.client),
		Users:          api.NewUserService(rt.client, rt.session, rt.log),
		Symptoms:       api.NewSymptomService(rt.client, rt.cfg.API.SymptomsURL),
		Session:        rt.session,
		Editor:         editor.NewEnvEditor(),
		Log:            rt.log,
		FeedPath:       rt.cfg.Feed.Path,
		SessionExpired: expired,
	})

	rt.log.Info("starting", "api", rt.cfg.API.BaseURL)
	p := tea.NewProgram(rootModel, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("medplus: %w", err)
	}
	return nil
}
