// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/log"
	"github.com/inference-net/staking/pubkey"
)

const (
	defaultPollInterval = time.Second
	tokenDecimals       = 9
	usdcDecimals        = 6
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stderr, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stderr, level, useColor)
	}
	log.SetDefault(handler)
	return level
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// normalizeCacheSize limits the state cache to a quarter of physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 4)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "net.inference.staking")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "net.inference.staking")
		default:
			return filepath.Join(home, ".net.inference.staking")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func parseAddress(name, value string) (pubkey.Address, error) {
	addr, err := pubkey.ParseAddress(strings.TrimSpace(value))
	if err != nil {
		return pubkey.Address{}, errors.WithMessagef(err, "invalid %s %q", name, value)
	}
	return addr, nil
}

// addressFlag parses a required address flag.
func addressFlag(ctx *cli.Context, name string) (pubkey.Address, error) {
	value := ctx.String(name)
	if value == "" {
		value = ctx.GlobalString(name)
	}
	if value == "" {
		return pubkey.Address{}, errors.Errorf("missing --%s", name)
	}
	return parseAddress(name, value)
}

// addressFlagOr parses an optional address flag, falling back to def.
func addressFlagOr(ctx *cli.Context, name string, def pubkey.Address) (pubkey.Address, error) {
	if ctx.String(name) == "" {
		return def, nil
	}
	return parseAddress(name, ctx.String(name))
}

func signerOf(ctx *cli.Context) (pubkey.Address, error) {
	return addressFlag(ctx, signerFlag.Name)
}

// addressList parses a comma separated list. An unset flag yields nil and "none" an empty list.
func addressList(ctx *cli.Context, name string) ([]pubkey.Address, error) {
	value := strings.TrimSpace(ctx.String(name))
	switch value {
	case "":
		return nil, nil
	case "none":
		return []pubkey.Address{}, nil
	}
	parts := strings.Split(value, ",")
	out := make([]pubkey.Address, 0, len(parts))
	for _, p := range parts {
		addr, err := parseAddress(name, p)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func optBool(ctx *cli.Context, name string) (*bool, error) {
	value := ctx.String(name)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid --%s", name)
	}
	return &b, nil
}

func optUint64(ctx *cli.Context, name string) (*uint64, error) {
	value := ctx.String(name)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid --%s", name)
	}
	return &n, nil
}

// optRate parses a pending commission change: unset is nil, "none" cancels.
func optRate(ctx *cli.Context, name string) (*accounts.Optional[uint16], error) {
	value := ctx.String(name)
	switch value {
	case "":
		return nil, nil
	case "none":
		none := accounts.None[uint16]()
		return &none, nil
	}
	n, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid --%s", name)
	}
	some := accounts.Some(uint16(n))
	return &some, nil
}

func requireUint64(ctx *cli.Context, name string) (uint64, error) {
	if !ctx.IsSet(name) {
		return 0, errors.Errorf("missing --%s", name)
	}
	return ctx.Uint64(name), nil
}

// formatAmount renders base units with the given decimals.
func formatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// confirm asks for "yes" on the controlling terminal unless --yes is set.
func confirm(ctx *cli.Context, prompt string) error {
	if ctx.Bool(yesFlag.Name) {
		return nil
	}
	t, err := tty.Open()
	if err != nil {
		return errors.Wrap(err, "no terminal to confirm on, pass --yes")
	}
	defer t.Close()

	fmt.Fprintf(t.Output(), "%s Type 'yes' to continue: ", prompt)
	answer, err := t.ReadString()
	if err != nil {
		return errors.Wrap(err, "read confirmation")
	}
	if strings.TrimSpace(answer) != "yes" {
		return errors.New("aborted")
	}
	return nil
}

func writeOutput(ctx *cli.Context, write func(w io.Writer) error) error {
	path := ctx.String(outFlag.Name)
	if path == "" {
		return write(ctx.App.Writer)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %v", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
