// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker"
)

var initCommand = cli.Command{
	Name:   "init",
	Usage:  "create the pool overview from a YAML config",
	Flags:  []cli.Flag{configFlag},
	Action: withSession(initAction),
}

var fundCommand = cli.Command{
	Name:   "fund",
	Usage:  "mint tokens or USDC to an owner",
	Flags:  []cli.Flag{mintFlag, ownerFlag, amountFlag},
	Action: withSession(fundAction),
}

var overviewCommand = cli.Command{
	Name:  "overview",
	Usage: "protocol wide settings",
	Subcommands: []cli.Command{
		{
			Name:  "update",
			Usage: "change protocol settings and halt flags",
			Flags: []cli.Flag{
				stakingHaltedFlag,
				withdrawalHaltedFlag,
				accrueHaltedFlag,
				allowPoolCreationFlag,
				minOperatorStakeFlag,
				operatorDelayFlag,
				delegatorDelayFlag,
				slashingDelayFlag,
				registrationFeeFlag,
				feeWalletFlag,
			},
			Action: withSession(overviewUpdateAction),
		},
		{
			Name:   "authorities",
			Usage:  "replace the admin or authority lists",
			Flags:  []cli.Flag{newAdminFlag, rewardAuthoritiesFlag, haltAuthoritiesFlag, slashingAuthoritiesFlag},
			Action: withSession(overviewAuthoritiesAction),
		},
		{
			Name:   "finalizing",
			Usage:  "set or clear the epoch finalizing flag",
			Flags:  []cli.Flag{finalizingFlag},
			Action: withSession(overviewFinalizingAction),
		},
	},
}

func initAction(ctx *cli.Context, s *session) error {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return errors.Errorf("missing --%s", configFlag.Name)
	}
	var cfg Config
	if err := readYAML(path, &cfg); err != nil {
		return err
	}
	if cfg.Admin.IsZero() {
		return errors.New("config: admin is required")
	}
	if err := s.staker.CreatePoolOverview(cfg.Admin, cfg.overviewParams()); err != nil {
		return err
	}
	for i, b := range cfg.Balances {
		mint, err := resolveMint(b.Mint, cfg.TokenMint, cfg.UsdcMint)
		if err != nil {
			return errors.WithMessagef(err, "balance %d", i)
		}
		if err := s.ledger.Mint(mint, b.Owner, b.Amount); err != nil {
			return errors.WithMessagef(err, "balance %d", i)
		}
	}
	logger.Info("pool overview created", "admin", cfg.Admin, "balances", len(cfg.Balances))
	return nil
}

func resolveMint(name string, token, usdc pubkey.Address) (pubkey.Address, error) {
	switch name {
	case "token", "":
		return token, nil
	case "usdc":
		return usdc, nil
	default:
		return pubkey.Address{}, errors.Errorf("unknown mint %q", name)
	}
}

func fundAction(ctx *cli.Context, s *session) error {
	o, err := s.staker.Overview()
	if err != nil {
		return err
	}
	mint, err := resolveMint(ctx.String(mintFlag.Name), o.TokenMint, o.UsdcMint)
	if err != nil {
		return err
	}
	owner, err := addressFlag(ctx, ownerFlag.Name)
	if err != nil {
		return err
	}
	amount, err := requireUint64(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	if err := s.ledger.Mint(mint, owner, amount); err != nil {
		return err
	}
	balance, err := s.ledger.Balance(mint, owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%v %s balance: %d\n", owner, ctx.String(mintFlag.Name), balance)
	return nil
}

func overviewUpdateAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	var u staker.OverviewUpdate
	for _, b := range []struct {
		name string
		dst  **bool
	}{
		{stakingHaltedFlag.Name, &u.IsStakingHalted},
		{withdrawalHaltedFlag.Name, &u.IsWithdrawalHalted},
		{accrueHaltedFlag.Name, &u.IsAccrueRewardHalted},
		{allowPoolCreationFlag.Name, &u.AllowPoolCreation},
	} {
		if *b.dst, err = optBool(ctx, b.name); err != nil {
			return err
		}
	}
	for _, n := range []struct {
		name string
		dst  **uint64
	}{
		{minOperatorStakeFlag.Name, &u.MinOperatorTokenStake},
		{operatorDelayFlag.Name, &u.OperatorUnstakeDelaySeconds},
		{delegatorDelayFlag.Name, &u.DelegatorUnstakeDelaySeconds},
		{slashingDelayFlag.Name, &u.SlashingDelaySeconds},
		{registrationFeeFlag.Name, &u.OperatorPoolRegistrationFee},
	} {
		if *n.dst, err = optUint64(ctx, n.name); err != nil {
			return err
		}
	}
	if ctx.String(feeWalletFlag.Name) != "" {
		wallet, err := addressFlag(ctx, feeWalletFlag.Name)
		if err != nil {
			return err
		}
		u.RegistrationFeePayoutWallet = &wallet
	}
	return s.staker.UpdatePoolOverview(signer, &u)
}

func overviewAuthoritiesAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	var u staker.AuthoritiesUpdate
	if ctx.String(newAdminFlag.Name) != "" {
		admin, err := addressFlag(ctx, newAdminFlag.Name)
		if err != nil {
			return err
		}
		u.NewAdmin = &admin
	}
	if u.RewardDistributionAuthorities, err = addressList(ctx, rewardAuthoritiesFlag.Name); err != nil {
		return err
	}
	if u.HaltAuthorities, err = addressList(ctx, haltAuthoritiesFlag.Name); err != nil {
		return err
	}
	if u.SlashingAuthorities, err = addressList(ctx, slashingAuthoritiesFlag.Name); err != nil {
		return err
	}
	return s.staker.UpdatePoolOverviewAuthorities(signer, &u)
}

func overviewFinalizingAction(ctx *cli.Context, s *session) error {
	signer, err := signerOf(ctx)
	if err != nil {
		return err
	}
	return s.staker.UpdateIsEpochFinalizing(signer, ctx.BoolT(finalizingFlag.Name))
}
