package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/krobus00/dashboard-service/internal/config"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/krobus00/dashboard-service/internal/repository"
	"github.com/krobus00/dashboard-service/internal/service/dashboard"
	"github.com/krobus00/dashboard-service/internal/service/widget"
	"github.com/krobus00/dashboard-service/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const clearScreen = "\033[H\033[2J"

func StartDashboardClient(cmd *cobra.Command, args []string) {
	once, err := cmd.Flags().GetBool("once")
	util.ContinueOrFatal(err)

	orderStore := newOrderStore()
	api := dashboard.NewHTTPDashboardAPI(config.Env.Dashboard.BaseURL, config.Env.Dashboard.RequestTimeout)

	if once {
		renderOnce(cmd.Context(), os.Stdout, api, orderStore)
		return
	}

	screen := &clientScreen{out: os.Stdout, orderStore: orderStore}
	state := dashboard.NewClientState(api, dashboard.ClientStateConfig{
		QuoteInterval: config.Env.Dashboard.QuoteInterval,
		NewsInterval:  config.Env.Dashboard.NewsInterval,
		OnChange:      screen.draw,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state.Start(ctx)
	go screen.tick(ctx, state)

	logrus.WithField("base_url", config.Env.Dashboard.BaseURL).Debug("dashboard client started")

	wait := gracefulShutdown(context.Background(), config.Env.GracefulShutdownTimeout, map[string]operation{
		"client state": func(ctx context.Context) error {
			cancel()
			state.Stop()
			return nil
		},
	})

	<-wait
}

func newOrderStore() *widget.OrderStore {
	storage := repository.NewFileLocalStorage(config.Env.Dashboard.StoragePath)
	return widget.NewOrderStore(storage, entity.DefaultWidgets)
}

// renderOnce fetches both snapshots in parallel and prints a single frame.
func renderOnce(ctx context.Context, out io.Writer, api dashboard.DashboardAPI, orderStore *widget.OrderStore) {
	if ctx == nil {
		ctx = context.Background()
	}

	state := dashboard.NewClientState(api, dashboard.ClientStateConfig{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		state.RefreshMarket(ctx)
	}()
	go func() {
		defer wg.Done()
		state.RefreshNews(ctx)
	}()
	wg.Wait()

	views := dashboard.BuildView(orderStore.Load(), state.Snapshot(), time.Now())
	_, _ = fmt.Fprintln(out, dashboard.Render(views))
}

type clientScreen struct {
	mu         sync.Mutex
	out        io.Writer
	orderStore *widget.OrderStore
}

func (s *clientScreen) draw(snapshot dashboard.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := dashboard.BuildView(s.orderStore.Load(), snapshot, time.Now())
	_, _ = fmt.Fprint(s.out, clearScreen+dashboard.Render(views)+"\n")
}

// tick redraws every second so the clock card stays current.
func (s *clientScreen) tick(ctx context.Context, state *dashboard.ClientState) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.draw(state.Snapshot())
		}
	}
}
