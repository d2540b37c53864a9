package blockvalidator

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// ConsensusClaims returns the claims that consensus mandates for a block
// body: the validity of the block transaction and the consistency of the
// declared accumulator state. They are a deterministic function of the
// body, so validator and composer always derive the same list.
func ConsensusClaims(body *externalapi.BlockBody) []externalapi.Digest {
	return []externalapi.Digest{
		claimDigest("transaction-validity", body.TransactionKernel.ID()),
		claimDigest("mutator-set-consistency", body.MutatorSetAccumulator.Hash()),
	}
}

// AppendixForBody builds the minimal appendix a valid block needs: exactly
// the consensus-mandated claims. Composers may append soft-fork claims
// after these.
func AppendixForBody(body *externalapi.BlockBody) externalapi.BlockAppendix {
	return externalapi.BlockAppendix{Claims: ConsensusClaims(body)}
}

func claimDigest(kind string, subject externalapi.Digest) externalapi.Digest {
	writer := hashes.NewHashWriter(hashes.ClaimDomain)
	if _, err := writer.Write([]byte(kind)); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	if _, err := writer.Write(subject.ByteSlice()); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	sum := writer.Finalize()
	return externalapi.NewDigestFromByteArray(&sum)
}
