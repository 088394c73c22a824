package bhost

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
)

// Signaller asks the host process to restart gracefully.
type Signaller func() error

// Reload returns an entry point that triggers a graceful restart of the host: configuration and applications are
// reloaded while in-flight requests finish. It only acts when the application's environment is listed in enabledIn
// ("development" when none are given) and answers 404 otherwise.
func Reload(signal Signaller, enabledIn ...string) EntryPoint {
	if len(enabledIn) == 0 {
		enabledIn = []string{"development"}
	}

	return EntryPointFunc(func(_ context.Context, _ error, _ *IncomingMessage, res *Response, _ NextFunc) error {
		if app := res.App(); app == nil || !slices.Contains(enabledIn, app.Settings().Env) {
			if err := res.SetStatusCode(http.StatusNotFound); err != nil {
				return err
			}
			return res.End()
		}

		if err := signal(); err != nil {
			return errors.Wrap(err, "signal host restart")
		}

		body, err := json.Marshal(map[string]int{
			"processID":       os.Getpid(),
			"parentProcessID": os.Getppid(),
		})
		if err != nil {
			return err
		}

		if err := res.Header().Set("Content-Type", "application/json"); err != nil {
			return err
		}
		if err := res.WriteChunks(body); err != nil {
			return err
		}

		return res.End()
	})
}
