// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/staker"
)

var poolCommand = cli.Command{
	Name:  "pool",
	Usage: "operator pool administration",
	Subcommands: []cli.Command{
		{
			Name:   "create",
			Usage:  "create a pool administered by the signer",
			Flags:  []cli.Flag{rewardRateFlag, usdcRateFlag, allowDelegationFlag, autoStakeFeesFlag},
			Action: withSession(poolCreateAction),
		},
		{
			Name:   "update",
			Usage:  "schedule commission changes or change pool settings",
			Flags:  []cli.Flag{poolFlag, rewardRateFlag, usdcRateFlag, allowDelegationFlag, autoStakeFeesFlag},
			Action: withSession(poolUpdateAction),
		},
		{
			Name:   "admin",
			Usage:  "hand the pool over to a new admin",
			Flags:  []cli.Flag{poolFlag, newAdminFlag},
			Action: withSession(poolAdminAction),
		},
		{
			Name:   "operator",
			Usage:  "point the pool at another operator staking record",
			Flags:  []cli.Flag{poolFlag, ownerFlag},
			Action: withSession(poolOperatorAction),
		},
		{
			Name:   "close",
			Usage:  "close the pool for good",
			Flags:  []cli.Flag{poolFlag, yesFlag},
			Action: withSession(poolCloseAction),
		},
		{
			Name:   "halt",
			Usage:  "halt or resume a pool",
			Flags:  []cli.Flag{poolFlag, haltedFlag},
			Action: withSession(poolHaltAction),
		},
		{
			Name:   "slash",
			Usage:  "slash shares of the operator record of a halted pool",
			Flags:  []cli.Flag{poolFlag, sharesFlag, destFlag, usdcDestFlag, yesFlag},
			Action: withSession(poolSlashAction),
		},
		{
			Name:   "withdraw",
			Usage:  "withdraw accumulated commission",
			Flags:  []cli.Flag{poolFlag, destFlag, mintFlag},
			Action: withSession(poolWithdrawAction),
		},
		{
			Name:   "sweep",
			Usage:  "move USDC dust out of a closed, empty pool",
			Flags:  []cli.Flag{poolFlag, destFlag},
			Action: withSession(poolSweepAction),
		},
	},
}

var recordCommand = cli.Command{
	Name:  "record",
	Usage: "staking records",
	Subcommands: []cli.Command{
		{
			Name:   "create",
			Usage:  "open the signer's staking record in a pool",
			Flags:  []cli.Flag{poolFlag},
			Action: withSession(recordCreateAction),
		},
		{
			Name:   "close",
			Usage:  "close the signer's empty staking record",
			Flags:  []cli.Flag{poolFlag},
			Action: withSession(recordCloseAction),
		},
	},
}

func poolCreateAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	var args staker.PoolArgs
	for _, r := range []struct {
		name string
		dst  *uint16
	}{
		{rewardRateFlag.Name, &args.RewardCommissionRateBps},
		{usdcRateFlag.Name, &args.UsdcCommissionRateBps},
	} {
		if v := ctx.String(r.name); v != "" {
			n, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return errors.WithMessagef(err, "invalid --%s", r.name)
			}
			*r.dst = uint16(n)
		}
	}
	if b, err := optBool(ctx, allowDelegationFlag.Name); err != nil {
		return err
	} else if b != nil {
		args.AllowDelegation = *b
	}
	if b, err := optBool(ctx, autoStakeFeesFlag.Name); err != nil {
		return err
	} else if b != nil {
		args.AutoStakeFees = *b
	}

	addr, err := s.staker.CreateOperatorPool(signer, &args)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, addr)
	return nil
}

func poolUpdateAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	var u staker.PoolUpdate
	if u.NewRewardCommissionRateBps, err = optRate(ctx, rewardRateFlag.Name); err != nil {
		return err
	}
	if u.NewUsdcCommissionRateBps, err = optRate(ctx, usdcRateFlag.Name); err != nil {
		return err
	}
	if u.AllowDelegation, err = optBool(ctx, allowDelegationFlag.Name); err != nil {
		return err
	}
	if u.AutoStakeFees, err = optBool(ctx, autoStakeFeesFlag.Name); err != nil {
		return err
	}
	return s.staker.UpdateOperatorPool(signer, pool, &u)
}

func poolAdminAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	admin, err := addressFlag(ctx, newAdminFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.ChangeOperatorAdmin(signer, pool, admin)
}

func poolOperatorAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	owner, err := addressFlag(ctx, ownerFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.ChangeOperatorStakingRecord(signer, pool, owner)
}

func poolCloseAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	if err := confirm(ctx, fmt.Sprintf("Closing pool %v cannot be undone.", pool)); err != nil {
		return err
	}
	return s.staker.CloseOperatorPool(signer, pool)
}

func poolHaltAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.SetHaltStatus(signer, pool, ctx.BoolT(haltedFlag.Name))
}

func poolSlashAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	shares, err := requireUint64(ctx, sharesFlag.Name)
	if err != nil {
		return err
	}
	dest, err := addressFlagOr(ctx, destFlag.Name, signer)
	if err != nil {
		return err
	}
	usdcDest, err := addressFlagOr(ctx, usdcDestFlag.Name, dest)
	if err != nil {
		return err
	}
	if err := confirm(ctx, fmt.Sprintf("Slashing %d shares of pool %v.", shares, pool)); err != nil {
		return err
	}
	return s.staker.SlashStake(signer, pool, shares, dest, usdcDest)
}

func poolWithdrawAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	dest, err := addressFlagOr(ctx, destFlag.Name, signer)
	if err != nil {
		return err
	}

	var amount uint64
	switch ctx.String(mintFlag.Name) {
	case "token":
		amount, err = s.staker.WithdrawOperatorRewardCommission(signer, pool, dest)
	case "usdc":
		amount, err = s.staker.WithdrawOperatorUsdcCommission(signer, pool, dest)
	default:
		return errors.Errorf("unknown mint %q", ctx.String(mintFlag.Name))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "withdrawn: %d\n", amount)
	return nil
}

func poolSweepAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	dest, err := addressFlagOr(ctx, destFlag.Name, signer)
	if err != nil {
		return err
	}
	amount, err := s.staker.SweepClosedPoolUsdcDust(signer, pool, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "swept: %d\n", amount)
	return nil
}

func recordCreateAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.CreateStakingRecord(signer, pool)
}

func recordCloseAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.CloseStakingRecord(signer, pool)
}

func stakeAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	amount, err := requireUint64(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.Stake(signer, pool, amount)
}

func unstakeAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	shares, err := requireUint64(ctx, sharesFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.Unstake(signer, pool, shares)
}

func cancelUnstakeAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.CancelUnstake(signer, pool)
}

func claimUnstakeAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	return s.staker.ClaimUnstake(signer, pool)
}

func claimUsdcAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	pool, err := addressFlag(ctx, poolFlag.Name)
	if err != nil {
		return err
	}
	amount, err := s.staker.ClaimUsdcEarnings(signer, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "claimed: %d\n", amount)
	return nil
}
