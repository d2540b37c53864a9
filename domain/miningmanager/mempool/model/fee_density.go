package model

import (
	"math/big"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// FeeDensity is the economic value of a transaction: fee in motes divided
// by serialized size in bytes. Exact rational arithmetic avoids the tie
// misordering that float division introduces for large fees.
type FeeDensity struct {
	ratio *big.Rat
}

// NewFeeDensity returns the fee density for the given fee and serialized
// size. A non-positive size yields a zero density so that malformed
// transactions sort at the bottom of the mempool.
func NewFeeDensity(fee externalapi.Amount, sizeBytes int) FeeDensity {
	if sizeBytes <= 0 || fee < 0 {
		return FeeDensity{ratio: new(big.Rat)}
	}
	return FeeDensity{ratio: new(big.Rat).SetFrac64(int64(fee), int64(sizeBytes))}
}

// Cmp compares two fee densities, returning -1, 0 or 1.
func (fd FeeDensity) Cmp(other FeeDensity) int {
	return fd.ratio.Cmp(other.ratio)
}

// String renders the density as a rational number of motes per byte.
func (fd FeeDensity) String() string {
	return fd.ratio.RatString()
}
