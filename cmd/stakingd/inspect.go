// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"io"

	"github.com/davecgh/go-spew/spew"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/overview"
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/position"
)

var inspectCommand = cli.Command{
	Name:  "inspect",
	Usage: "print stored accounts",
	Subcommands: []cli.Command{
		{
			Name:   "overview",
			Usage:  "print the pool overview",
			Flags:  []cli.Flag{rawFlag},
			Action: withReadSession(inspectOverviewAction),
		},
		{
			Name:   "pool",
			Usage:  "print a pool and its vault balances",
			Flags:  []cli.Flag{poolFlag, rawFlag},
			Action: withReadSession(inspectPoolAction),
		},
		{
			Name:   "record",
			Usage:  "print a staking record",
			Flags:  []cli.Flag{poolFlag, ownerFlag, rawFlag},
			Action: withReadSession(inspectRecordAction),
		},
		{
			Name:   "epoch",
			Usage:  "print the reward record of an epoch",
			Flags:  []cli.Flag{epochFlag, rawFlag},
			Action: withReadSession(inspectEpochAction),
		},
	},
}

type overviewView struct {
	*overview.Overview
	Supply struct {
		Token string `json:"token"`
		Usdc  string `json:"usdc"`
	} `json:"supply"`
	RewardVault string `json:"rewardVault"`
	UsdcVault   string `json:"usdcVault"`
}

type poolView struct {
	Address pubkey.Address `json:"address"`
	*pool.Pool
	Staked           string `json:"staked"`
	RewardCommission string `json:"rewardCommission"`
	UsdcCommission   string `json:"usdcCommission"`
	DelegatorUsdc    string `json:"delegatorUsdc"`
}

type recordView struct {
	ID pubkey.Address `json:"id"`
	*position.Position
	TokenValue    string `json:"tokenValue"`
	ClaimableUsdc string `json:"claimableUsdc"`
}

// printView writes v as indented JSON, or as a spew dump with --raw.
func printView(ctx *cli.Context, v any, raw any) error {
	return writeOutput(ctx, func(w io.Writer) error {
		if ctx.Bool(rawFlag.Name) {
			spew.Fdump(w, raw)
			return nil
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func inspectOverviewAction(ctx *cli.Context, s *session) error {
	ov, err := s.staker.Overview()
	if err != nil {
		return err
	}
	view := &overviewView{Overview: ov}
	for _, b := range []struct {
		mint, owner pubkey.Address
		decimals    int32
		dst         *string
	}{
		{ov.TokenMint, staker.GlobalRewardVault, tokenDecimals, &view.RewardVault},
		{ov.UsdcMint, staker.GlobalUsdcVault, usdcDecimals, &view.UsdcVault},
	} {
		amount, err := s.ledger.Balance(b.mint, b.owner)
		if err != nil {
			return err
		}
		*b.dst = formatAmount(amount, b.decimals)
	}
	tokenSupply, err := s.ledger.Supply(ov.TokenMint)
	if err != nil {
		return err
	}
	usdcSupply, err := s.ledger.Supply(ov.UsdcMint)
	if err != nil {
		return err
	}
	view.Supply.Token = formatAmount(tokenSupply, tokenDecimals)
	view.Supply.Usdc = formatAmount(usdcSupply, usdcDecimals)
	return printView(ctx, view, ov)
}

func inspectPoolAction(ctx *cli.Context, s *session) error {
	addr, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	p, err := s.staker.Pool(addr)
	if err != nil {
		return err
	}
	bal, err := s.staker.PoolBalances(addr)
	if err != nil {
		return err
	}
	return printView(ctx, &poolView{
		Address:          addr,
		Pool:             p,
		Staked:           formatAmount(bal.Staked, tokenDecimals),
		RewardCommission: formatAmount(bal.RewardCommission, tokenDecimals),
		UsdcCommission:   formatAmount(bal.UsdcCommission, usdcDecimals),
		DelegatorUsdc:    formatAmount(bal.DelegatorUsdc, usdcDecimals),
	}, p)
}

func inspectRecordAction(ctx *cli.Context, s *session) error {
	addr, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	owner, err := addressFlagOr(ctx, ownerFlag.Name, pubkey.Address{})
	if err != nil {
		return err
	}
	if owner.IsZero() {
		if owner, err = signerOf(ctx); err != nil {
			return err
		}
	}
	p, err := s.staker.Pool(addr)
	if err != nil {
		return err
	}
	rec, err := s.staker.Position(addr, owner)
	if err != nil {
		return err
	}
	value, err := p.TokensForShares(rec.Shares)
	if err != nil {
		return err
	}
	unsettled, err := rec.Unsettled(p.Index())
	if err != nil {
		return err
	}
	claimable, err := checked.Add(rec.AccruedUsdcEarnings, unsettled)
	if err != nil {
		return err
	}
	return printView(ctx, &recordView{
		ID:            rec.ID(),
		Position:      rec,
		TokenValue:    formatAmount(value, tokenDecimals),
		ClaimableUsdc: formatAmount(claimable, usdcDecimals),
	}, rec)
}

func inspectEpochAction(ctx *cli.Context, s *session) error {
	num, err := requireUint64(ctx, epochFlag.Name)
	if err != nil {
		return err
	}
	rec, err := s.staker.RewardRecord(num)
	if err != nil {
		return err
	}
	return printView(ctx, rec, rec)
}
