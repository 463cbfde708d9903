// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Write the stored transcript to a file without
// entering a chat.

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/reportchat/internal/export"
	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/session"
	"github.com/jeranaias/reportchat/internal/storage"
)

// RunExport loads the identity's persisted history and writes it out in
// the requested format.
func RunExport(store *storage.Store, identity session.Identity, args Args) error {
	history, err := store.LoadHistory(identity.HistoryKey())
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	settled := make([]model.Message, 0, len(history))
	for _, m := range history {
		if !m.Pending {
			settled = append(settled, m)
		}
	}
	if len(settled) == 0 {
		return fmt.Errorf("no conversation stored for %s yet", identity.HistoryKey())
	}

	format := args.Format
	if format == "" {
		format = "md"
	}
	opts := export.DefaultOptions()
	if args.OutDir != "" {
		opts.OutputDir = args.OutDir
	}

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return err
	}

	tr := &export.Transcript{
		UserName:  identity.Name,
		UserEmail: identity.Email,
		Messages:  settled,
	}
	path, err := export.ToFile(tr, exporter, opts)
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(os.Stdout, "exported %d messages to %s\n", len(settled), path)
	return nil
}
