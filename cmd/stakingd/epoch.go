// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/pubkey"
)

var epochCommand = cli.Command{
	Name:  "epoch",
	Usage: "reward epoch lifecycle",
	Subcommands: []cli.Command{
		{
			Name:   "finalize",
			Usage:  "mark the open epoch as finalizing",
			Flags:  []cli.Flag{epochFlag},
			Action: withSession(epochFinalizeAction),
		},
		{
			Name:   "record",
			Usage:  "publish the reward record of the finalizing epoch",
			Flags:  []cli.Flag{rootFlag, distributionFlag, rewardsFlag, usdcFlag},
			Action: withSession(epochRecordAction),
		},
		{
			Name:   "modify",
			Usage:  "replace the merkle roots of a published epoch",
			Flags:  []cli.Flag{epochFlag, rootFlag, distributionFlag},
			Action: withSession(epochModifyAction),
		},
		{
			Name:   "accrue",
			Usage:  "accrue the next epoch reward of a pool",
			Flags:  []cli.Flag{poolFlag, distributionFlag, rootIndexFlag},
			Action: withSession(epochAccrueAction),
		},
		{
			Name:   "accrue-all",
			Usage:  "accrue every pool of a distribution",
			Flags:  []cli.Flag{distributionFlag, rootIndexFlag},
			Action: withSession(epochAccrueAllAction),
		},
		{
			Name:   "bypass",
			Usage:  "skip the next epoch of a pool without rewards",
			Flags:  []cli.Flag{poolFlag, yesFlag},
			Action: withSession(epochBypassAction),
		},
	},
}

func loadDistribution(ctx *cli.Context) (*Distribution, error) {
	path := ctx.String(distributionFlag.Name)
	if path == "" {
		return nil, errors.Errorf("missing --%s", distributionFlag.Name)
	}
	var d Distribution
	if err := readYAML(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// rootsOf collects --root values, or the root of --distribution when none is given.
func rootsOf(ctx *cli.Context) ([]pubkey.Bytes32, *Distribution, error) {
	var roots []pubkey.Bytes32
	for _, s := range ctx.StringSlice(rootFlag.Name) {
		root, err := pubkey.ParseBytes32(s)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "invalid --%s %q", rootFlag.Name, s)
		}
		roots = append(roots, root)
	}
	if ctx.String(distributionFlag.Name) == "" {
		return roots, nil, nil
	}
	d, err := loadDistribution(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(roots) == 0 {
		roots = []pubkey.Bytes32{d.Root}
	}
	return roots, d, nil
}

func epochFinalizeAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	expected, err := requireUint64(ctx, epochFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.MarkEpochFinalizing(signer, expected)
}

func epochRecordAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	roots, d, err := rootsOf(ctx)
	if err != nil {
		return err
	}

	var rewards, usdc uint64
	if d != nil {
		rewards, usdc = d.Totals()
	}
	if ctx.IsSet(rewardsFlag.Name) {
		rewards = ctx.Uint64(rewardsFlag.Name)
	}
	if ctx.IsSet(usdcFlag.Name) {
		usdc = ctx.Uint64(usdcFlag.Name)
	}
	return s.staker.CreateRewardRecord(signer, roots, rewards, usdc)
}

func epochModifyAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	num, err := requireUint64(ctx, epochFlag.Name)
	if err != nil {
		return err
	}
	roots, _, err := rootsOf(ctx)
	if err != nil {
		return err
	}
	return s.staker.ModifyRewardRecord(signer, num, roots)
}

func epochAccrueAction(ctx *cli.Context, s *session) error {
	poolAddr, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	d, err := loadDistribution(ctx)
	if err != nil {
		return err
	}
	claim, err := d.Claim(poolAddr, ctx.Int(rootIndexFlag.Name))
	if err != nil {
		return err
	}
	return s.staker.AccrueReward(poolAddr, claim)
}

func epochAccrueAllAction(ctx *cli.Context, s *session) error {
	d, err := loadDistribution(ctx)
	if err != nil {
		return err
	}
	rootIndex := ctx.Int(rootIndexFlag.Name)

	bar := pb.New(len(d.Leaves))
	bar.Output = ctx.App.ErrWriter
	bar.SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	failed := 0
	for _, l := range d.Leaves {
		claim, err := d.Claim(l.Pool, rootIndex)
		if err != nil {
			return err
		}
		if err := s.staker.AccrueReward(l.Pool, claim); err != nil {
			logger.Warn("accrue failed", "pool", l.Pool, "err", err)
			failed++
		}
		bar.Increment()
	}
	bar.Finish()

	fmt.Fprintf(ctx.App.Writer, "accrued: %d, failed: %d\n", len(d.Leaves)-failed, failed)
	return nil
}

func epochBypassAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	poolAddr, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	if err := confirm(ctx, fmt.Sprintf("Pool %v forfeits its next epoch reward.", poolAddr)); err != nil {
		return err
	}
	return s.staker.AccrueRewardEmergencyBypass(signer, poolAddr)
}
