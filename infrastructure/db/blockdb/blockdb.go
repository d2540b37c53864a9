package blockdb

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/mutatorset"
)

var (
	blockKeyPrefix = []byte("block/")
	tipKey         = []byte("tip")
)

var defaultOptions = opt.Options{
	Compression:        opt.NoCompression,
	BlockCacheCapacity: 256 * opt.MiB,
	WriteBuffer:        128 * opt.MiB,
}

// BlockDB persists blocks and the current tip digest. It is the minimal
// store the daemon needs to survive a restart; archival layouts are a
// separate concern.
type BlockDB struct {
	ldb *leveldb.DB
}

// Open opens the block database at the given path, creating it if it
// doesn't exist and attempting recovery if it is corrupted.
func Open(path string) (*BlockDB, error) {
	ldb, err := leveldb.OpenFile(path, &defaultOptions)

	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s", path, err)
		ldb, err = leveldb.RecoverFile(path, &defaultOptions)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to recover block database at %s", path)
		}
		log.Warnf("LevelDB recovered from corruption for path %s", path)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to open block database at %s", path)
	}
	return &BlockDB{ldb: ldb}, nil
}

// Close closes the block database.
func (db *BlockDB) Close() error {
	return errors.WithStack(db.ldb.Close())
}

// StoreBlock writes a block keyed by its digest.
func (db *BlockDB) StoreBlock(block *externalapi.Block) error {
	buffer := &bytes.Buffer{}
	err := block.Serialize(buffer)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize block %s", block.Digest())
	}
	digest := block.Digest()
	err = db.ldb.Put(blockKey(digest), buffer.Bytes(), nil)
	return errors.Wrapf(err, "failed to store block %s", digest)
}

// FetchBlock reads the block with the given digest. The second return
// value is false when the block is not in the database.
func (db *BlockDB) FetchBlock(digest externalapi.Digest) (*externalapi.Block, bool, error) {
	data, err := db.ldb.Get(blockKey(digest), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "failed to fetch block %s", digest)
	}
	block, err := externalapi.DeserializeBlock(bytes.NewReader(data), mutatorset.DecodeAccumulator)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to deserialize block %s", digest)
	}
	return block, true, nil
}

// Tip returns the stored tip digest. The second return value is false
// when no tip has been stored yet.
func (db *BlockDB) Tip() (externalapi.Digest, bool, error) {
	data, err := db.ldb.Get(tipKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return externalapi.Digest{}, false, nil
		}
		return externalapi.Digest{}, false, errors.Wrap(err, "failed to fetch tip")
	}
	digest, err := externalapi.NewDigestFromByteSlice(data)
	if err != nil {
		return externalapi.Digest{}, false, errors.Wrap(err, "stored tip is malformed")
	}
	return digest, true, nil
}

// SetTip stores the given digest as the current tip.
func (db *BlockDB) SetTip(digest externalapi.Digest) error {
	err := db.ldb.Put(tipKey, digest.ByteSlice(), nil)
	return errors.Wrapf(err, "failed to store tip %s", digest)
}

func blockKey(digest externalapi.Digest) []byte {
	return append(append([]byte{}, blockKeyPrefix...), digest.ByteSlice()...)
}
