package blockvalidator

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// ForkChoice picks between the current tip and an incoming block of equal
// or different height. It is pure, side-effect-free and idempotent: it is
// evaluated both on receipt of a block from a peer and again by the
// orchestrating loop to resolve races, and must give the same answer both
// times.
//
// Across heights, strictly greater cumulative proof-of-work wins. At equal
// heights, a block whose transaction actually spends inputs beats a lazy
// empty proposal; when both or neither are empty the current tip is kept.
func ForkChoice(currentTip, incoming *externalapi.Block) *externalapi.Block {
	currentHeader := currentTip.Header()
	incomingHeader := incoming.Header()

	if currentHeader.Height != incomingHeader.Height {
		if incomingHeader.CumulativeWork.Cmp(&currentHeader.CumulativeWork) > 0 {
			return incoming
		}
		return currentTip
	}

	currentEmpty := len(currentTip.Body().TransactionKernel.Inputs) == 0
	incomingEmpty := len(incoming.Body().TransactionKernel.Inputs) == 0
	if currentEmpty && !incomingEmpty {
		return incoming
	}
	return currentTip
}
