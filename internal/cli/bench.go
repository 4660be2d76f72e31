package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/randomgen"
	"golang.org/x/sync/errgroup"
)

// maxBenchIds bounds the number of contact ids the benchmark picks from.
const maxBenchIds = 1000

// bench measures the average duration of the list, get and update requests.
type bench struct {
	api     *client.Client
	ids     []int64
	workers int

	genMu sync.Mutex
	gen   *randomgen.Generator
}

func newBenchCmd(e *env) *cobra.Command {
	var (
		apiURL  string
		sizes   []int
		workers int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time list, get and update requests against a running service",
		Long: `bench sends rounds of GET /contacts?_page, GET /contacts/:id and PATCH /contacts/:id
requests and prints the average duration of each kind in microseconds. PATCH requests overwrite
phone numbers and cities with random values.`,
		Example: `  contacts bench --url http://localhost:8080 --sizes 1000,5000 --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = e.cfg.APIURL
			}
			if workers < 1 {
				return errors.Errorf("workers must be positive, got %d", workers)
			}
			ctx := cmd.Context()
			api := client.New(apiURL, nil)
			first, err := api.List(ctx, nil, 1, maxBenchIds)
			if err != nil {
				return err
			}
			if len(first.Contacts) == 0 {
				return errors.New("no contacts to benchmark, run the seed command first")
			}
			b := &bench{api: api, workers: workers, gen: randomgen.New(seed)}
			for _, c := range first.Contacts {
				b.ids = append(b.ids, c.Id)
			}
			e.logg.Debugw("Starting benchmark", "contacts", first.Total, "workers", workers)
			return b.run(ctx, cmd.OutOrStdout(), sizes, (first.Total+e.cfg.PageSize-1)/e.cfg.PageSize, e.cfg.PageSize)
		},
	}
	cmd.Flags().StringVar(&apiURL, "url", "", "base URL of the service (default $API_URL)")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{100, 500, 1000}, "number of requests per round")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of concurrent requests")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the PATCH values, 0 for a random one")
	return cmd
}

// run prints one line per round size.
func (b *bench) run(ctx context.Context, out io.Writer, sizes []int, pages int, pageSize int) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, bold("  Requests  GET page    GET id     PATCH"))
	fmt.Fprintln(out, "----------------------------------------")
	for _, loops := range sizes {
		fmt.Fprintf(out, "%10d", loops)
		rounds := []func(ctx context.Context, i int) error{
			func(ctx context.Context, i int) error {
				_, err := b.api.List(ctx, nil, 1+rand.Intn(pages), pageSize)
				return err
			},
			func(ctx context.Context, i int) error {
				_, err := b.api.Get(ctx, b.ids[i%len(b.ids)])
				return err
			},
			func(ctx context.Context, i int) error {
				id := b.ids[i%len(b.ids)]
				b.genMu.Lock()
				generated := b.gen.Contact(id)
				b.genMu.Unlock()
				patch := model.Contact{Id: id, Phone: generated.Phone, City: generated.City}
				_, err := b.api.Update(ctx, id, patch)
				return err
			},
		}
		for _, f := range rounds {
			avg, err := b.timeRound(ctx, loops, f)
			if err != nil {
				fmt.Fprintln(out)
				return err
			}
			fmt.Fprintf(out, "%10d", avg.Microseconds())
		}
		fmt.Fprintln(out)
	}
	return nil
}

// timeRound calls f loops times on shuffled indexes and returns the average call duration.
func (b *bench) timeRound(ctx context.Context, loops int, f func(ctx context.Context, i int) error) (time.Duration, error) {
	if loops < 1 {
		return 0, nil
	}
	order := rand.Perm(loops)
	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, i := range order {
		i := i
		g.Go(func() error {
			before := time.Now()
			if err := f(ctx, i); err != nil {
				return err
			}
			total.Add(int64(time.Since(before)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return time.Duration(total.Load() / int64(loops)), nil
}
