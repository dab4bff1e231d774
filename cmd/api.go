package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/importdash/internal/services"
	"github.com/desertthunder/importdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the import API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. %s)", shared.ErrMissingArgument, services.LogsPath)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}

	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the import API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. %s)", shared.ErrMissingArgument, services.TriggerPath)
	}

	var body []byte
	if data := cmd.String("data"); data != "" {
		var v any
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
		body = []byte(data)
	}

	r.logger.Info("POST request", "path", path, "bytes", len(body))

	resp, err := r.api.Post(ctx, path, body)
	if err != nil {
		return err
	}

	return r.writeResponse(resp, true)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, shared.Truncate(string(resp.Body), 200))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	return r.writePlain("%s\n", resp.Body)
}
