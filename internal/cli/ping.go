package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	jerrors "github.com/tessro/jamp/internal/errors"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the Jellyfin server and the media engine",
	Long: `Check that the Jellyfin server answers authenticated requests and that
mpv can be started. Both checks run at the same time.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

// CheckResult is the outcome of one ping check.
type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Detail  string        `json:"detail,omitempty"`
	Latency time.Duration `json:"latency_ns"`
	Error   string        `json:"error,omitempty"`

	err error
}

func (c *CheckResult) fail(err error) CheckResult {
	c.err = fmt.Errorf("%s: %w", c.Name, err)
	c.Error = err.Error()
	return *c
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext(cmd)
	defer cancel()

	var server, engine CheckResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		server = checkServer(gctx)
		return nil
	})
	g.Go(func() error {
		engine = checkEngine(gctx)
		return nil
	})
	_ = g.Wait()

	result := jerrors.PartialResult[[]CheckResult]{Data: []CheckResult{server, engine}}
	for _, c := range result.Data {
		result.AddError(c.err)
	}

	if JSONOutput() {
		if err := printJSON(result.Data); err != nil {
			return err
		}
	} else {
		for _, c := range result.Data {
			line := fmt.Sprintf("%s %-7s", StatusIcon(c.OK), c.Name)
			if c.OK {
				line += fmt.Sprintf(" %s (%s)", c.Detail, c.Latency.Round(time.Millisecond))
			} else {
				line += " " + c.Error
			}
			fmt.Println(line)
		}
	}

	switch {
	case len(result.Errors) == 1:
		return result.Errors[0]
	case result.HasErrors():
		return errors.New(result.ErrorSummary())
	}
	return nil
}

func checkServer(ctx context.Context) CheckResult {
	res := CheckResult{Name: "server"}

	c, err := newClient()
	if err != nil {
		return res.fail(err)
	}

	start := time.Now()
	info, err := c.SystemInfo(ctx)
	res.Latency = time.Since(start)
	if err != nil {
		return res.fail(err)
	}

	res.OK = true
	res.Detail = fmt.Sprintf("%s %s at %s", info.ServerName, info.Version, c.BaseURL())
	return res
}

func checkEngine(ctx context.Context) CheckResult {
	res := CheckResult{Name: "engine"}

	start := time.Now()
	engine, err := startEngine(ctx)
	res.Latency = time.Since(start)
	if err != nil {
		return res.fail(err)
	}
	defer func() { _ = engine.Close() }()

	res.OK = true
	res.Detail = "mpv ready"
	return res
}
