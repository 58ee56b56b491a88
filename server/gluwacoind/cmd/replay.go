// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/chainservice"
	"github.com/gluwa/gluwacoin-ledger/server/itx"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Apply hex-encoded blocks, one per line, and print their receipts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return replayFile(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func replayFile(ctx context.Context, path string, w io.Writer) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	svr, err := itx.NewServer(cfg)
	if err != nil {
		return err
	}
	if err := svr.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := svr.Stop(ctx); err == nil {
			err = stopErr
		}
	}()
	return replay(ctx, svr.ChainService(), f, w)
}

// replay applies the blocks read from r and writes one line per receipt to w
func replay(ctx context.Context, cs *chainservice.ChainService, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		b, err := hexutil.Decode(text)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		blk, err := action.DeserializeBlock(b)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		receipts, err := cs.ApplyBlock(ctx, blk)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		for _, receipt := range receipts {
			if _, err := fmt.Fprintln(w, formatReceipt(receipt)); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func formatReceipt(r *action.Receipt) string {
	if r.Succeeded() {
		return fmt.Sprintf("%d/%d %s %s ok", r.BlockHeight, r.Index, r.Kind, r.ActHash.Hex())
	}
	return fmt.Sprintf("%d/%d %s %s %s: %s", r.BlockHeight, r.Index, r.Kind, r.ActHash.Hex(), r.ErrorKind, r.Reason)
}
