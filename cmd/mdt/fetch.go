package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

type fetchCmd struct {
	Domain string `arg:"" enum:"dashboard,citizens,vehicles,incidents" help:"Record domain to fetch."`
	Query  string `help:"Free text filter forwarded to the host."`
}

func (cmd *fetchCmd) Run(ctx context.Context, g *Globals) error {
	rt, err := g.setup()
	if err != nil {
		return err
	}
	defer rt.log.Sync() //nolint:errcheck
	return cmd.fetch(ctx, rt.client, os.Stdout)
}

func (cmd *fetchCmd) fetch(ctx context.Context, client mdt.HostClient, out io.Writer) error {
	records, err := client.FetchData(ctx, cmd.Domain, cmd.Query)
	if err != nil {
		return fmt.Errorf("mdt: fetch %s: %w", cmd.Domain, err)
	}
	if records.Empty() {
		_, err = fmt.Fprintln(out, "null")
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, records.Raw, "", "  "); err != nil {
		return fmt.Errorf("mdt: format %s: %w", cmd.Domain, err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(out)
	return err
}
