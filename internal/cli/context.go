package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/config"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/repository/rest"
	"campus-rental-client/internal/security"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/session"
	"campus-rental-client/internal/storage"
	"campus-rental-client/internal/utils"

	"github.com/spf13/cobra"
)

type contextKey struct{}

// CLIContext holds the wired client for one command invocation.
type CLIContext struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.KeyValueStore
	Session    *session.Manager
	API        *client.Client
	Repos      *rest.Store
	Gateway    payment.Gateway

	Bookings service.BookingService
	Catalog  service.CatalogService
	Chat     service.ChatService
}

// NewCLIContext builds the object graph over store. opener presents the
// hosted checkout page.
func NewCLIContext(cfg *config.Config, configPath string, store storage.KeyValueStore, opener payment.Opener) *CLIContext {
	sess := session.NewManager(store, security.NewVault(cfg.Session.Secret), utils.SystemClock)
	api := client.New(client.OptionsFromConfig(cfg), sess)
	repos := rest.NewStore(api)
	sess.SetUserRepository(repos.UserRepository)

	gateway := payment.NewLoopbackGateway(payment.LoopbackConfigFromConfig(cfg), opener)

	return &CLIContext{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		Session:    sess,
		API:        api,
		Repos:      repos,
		Gateway:    gateway,
		Bookings:   service.NewBookingService(repos.ItemRepository, repos.BookingRepository, repos.PaymentRepository, gateway, sess, utils.SystemClock),
		Catalog:    service.NewCatalogService(repos.ItemRepository, repos.WishlistRepository, sess),
		Chat:       service.NewChatService(repos.ChatRepository, sess),
	}
}

// Close releases the session storage.
func (c *CLIContext) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// RequireLogin fails with the log-in prompt when no session is active.
func (c *CLIContext) RequireLogin() error {
	_, err := c.Session.RequireUser()
	return err
}

// GetCLIContext returns the context set up by the root command.
func GetCLIContext(cmd *cobra.Command) *CLIContext {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	cliCtx, ok := ctx.Value(contextKey{}).(*CLIContext)
	if !ok {
		return nil
	}
	return cliCtx
}

func withCLIContext(ctx context.Context, cliCtx *CLIContext) context.Context {
	return context.WithValue(ctx, contextKey{}, cliCtx)
}

func mustContext(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx := GetCLIContext(cmd)
	if cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return cliCtx, nil
}

// authed is mustContext plus the login gate.
func authed(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx, err := mustContext(cmd)
	if err != nil {
		return nil, err
	}
	if err := cliCtx.RequireLogin(); err != nil {
		return nil, err
	}
	return cliCtx, nil
}

// browserOpener prints the checkout URL to w and tries to open it in the
// default browser.
func browserOpener(w io.Writer, launch bool) payment.Opener {
	return func(checkoutURL string) error {
		fmt.Fprintf(w, "Complete the payment in your browser:\n  %s\n", checkoutURL)
		if !launch {
			return nil
		}
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", checkoutURL)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", checkoutURL)
		default:
			cmd = exec.Command("xdg-open", checkoutURL)
		}
		if err := cmd.Start(); err != nil {
			fmt.Fprintln(os.Stderr, "Could not open a browser; open the link above manually.")
		}
		return nil
	}
}
