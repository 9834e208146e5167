package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

// CashShopStage sequences the cash shop round trip.
type CashShopStage int

const (
	CashShopEntering CashShopStage = iota
	CashShopEntered
	CashShopExiting
	CashShopExited
	CashShopStalling
)

// updateCashShopContext runs the recovery round trip: hammer the shop key
// until the shop is detected, sit inside it for the entered budget, back out
// with focus click + Esc + Enter until the shop is gone, wait for the avatar
// to be re-detected, then settle briefly before going idle.
func updateCashShopContext(ctx *Context, state *PlayerState, p PlayerCashShop, failedToDetect bool) Player {
	switch p.Stage {
	case CashShopEntering:
		_ = ctx.Keys.Send(state.Config.CashShopKey)
		next := CashShopEntering
		if ctx.Detector.DetectPlayerInCashShop() {
			log.Info().Msg("cash shop entered")
			next = CashShopEntered
		}
		return PlayerCashShop{Timeout: p.Timeout, Stage: next}
	case CashShopEntered:
		return advanceTimeout(
			p.Timeout,
			constants.CashShopEnteredTimeout,
			func(t Timeout) Player { return PlayerCashShop{Timeout: t, Stage: p.Stage} },
			func() Player { return PlayerCashShop{Timeout: p.Timeout, Stage: CashShopExiting} },
			func(t Timeout) Player { return PlayerCashShop{Timeout: t, Stage: p.Stage} },
		)
	case CashShopExiting:
		next := CashShopExited
		if ctx.Detector.DetectPlayerInCashShop() {
			next = CashShopExiting
		}
		_ = ctx.Keys.SendClickToFocus()
		_ = ctx.Keys.Send(platform.KeyEsc)
		_ = ctx.Keys.Send(platform.KeyEnter)
		return PlayerCashShop{Timeout: p.Timeout, Stage: next}
	case CashShopExited:
		if failedToDetect {
			return PlayerCashShop{Timeout: p.Timeout, Stage: p.Stage}
		}
		return PlayerCashShop{Stage: CashShopStalling}
	case CashShopStalling:
		return advanceTimeout(
			p.Timeout,
			constants.CashShopStallingTimeout,
			func(t Timeout) Player { return PlayerCashShop{Timeout: t, Stage: p.Stage} },
			func() Player { return PlayerIdle{} },
			func(t Timeout) Player { return PlayerCashShop{Timeout: t, Stage: p.Stage} },
		)
	default:
		panic("engine: unknown cash shop stage")
	}
}
