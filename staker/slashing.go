// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/reverts"
)

// SlashStake burns shares of a halted pool's operator record once the slashing delay has
// passed. The slashed tokens go to tokenDest. The operator's USDC earnings and both
// commission vaults are confiscated as well.
func (s *Staker) SlashStake(signer, poolAddr pubkey.Address, shares uint64, tokenDest, usdcDest pubkey.Address) error {
	ctx := []any{"signer", signer, "pool", poolAddr, "shares", shares}
	return s.run("slash_stake", ctx, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.IsSlashingAuthority(signer) {
			return reverts.ErrInvalidSlashingAuthority
		}
		if shares == 0 {
			return reverts.ErrInvalidSlashSharesAmount
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		haltedAt, ok := p.HaltedAtTimestamp.Get()
		if !ok {
			return reverts.ErrOperatorPoolNotHalted
		}
		if now := s.clock.Now(); now < haltedAt || now-haltedAt < o.SlashingDelaySeconds {
			return errors.WithMessagef(reverts.ErrSlashingDelayNotMet, "halted at %d, now %d", haltedAt, now)
		}
		operator, err := s.positionService.GetByID(p.OperatorStakingRecord)
		if err != nil {
			return err
		}
		if shares > operator.Shares {
			return errors.WithMessagef(reverts.ErrInvalidSlashSharesAmount, "operator holds %d shares", operator.Shares)
		}

		tokens, err := p.SlashTokens(operator, shares)
		if err != nil {
			return err
		}
		vaults := PoolVaults(poolAddr)

		usdcConfiscated := operator.AccruedUsdcEarnings
		if err := s.transfer(o.UsdcMint, vaults.DelegatorUsdc, usdcDest, usdcConfiscated, reverts.ErrInsufficientPoolUsdcVaultBalance); err != nil {
			return err
		}
		operator.AccruedUsdcEarnings = 0

		rewardCommission, err := s.ledger.Balance(o.TokenMint, vaults.RewardCommission)
		if err != nil {
			return err
		}
		if err := s.transfer(o.TokenMint, vaults.RewardCommission, tokenDest, rewardCommission, reverts.ErrInsufficientVaultBalance); err != nil {
			return err
		}
		usdcCommission, err := s.ledger.Balance(o.UsdcMint, vaults.UsdcCommission)
		if err != nil {
			return err
		}
		if err := s.transfer(o.UsdcMint, vaults.UsdcCommission, usdcDest, usdcCommission, reverts.ErrInsufficientVaultBalance); err != nil {
			return err
		}
		if err := s.transfer(o.TokenMint, vaults.Staked, tokenDest, tokens, reverts.ErrInsufficientVaultBalance); err != nil {
			return err
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		if err := s.positionService.Update(operator); err != nil {
			return err
		}
		return s.emit(events.StakeSlashed, poolAddr, signer, currentEpoch(o), &events.SlashData{
			Record:                      operator.ID(),
			Destination:                 tokenDest,
			DestinationUsdc:             usdcDest,
			SharesSlashed:               shares,
			TokenAmountSlashed:          tokens,
			UsdcConfiscated:             usdcConfiscated,
			RewardCommissionConfiscated: rewardCommission,
			UsdcCommissionConfiscated:   usdcCommission,
		})
	})
}
