package closing_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/klauspost/compress/zstd"

	"meatpos/internal/core/apperror"
	"meatpos/internal/domain/closing"
	"meatpos/internal/infrastructure/storage/postgres"
)

const closedDayTable = "closed_days"

// compressionAlgo identifies how a snapshot body is encoded.
type compressionAlgo string

const (
	compressionNone compressionAlgo = "none"
	compressionZstd compressionAlgo = "zstd"
)

// snapshotArchiver stores closed-day snapshots as compressed JSON.
// A day's snapshot bundles the setup, the closing record and every
// bill, so bodies compress well; small ones are stored uncompressed.
type snapshotArchiver struct {
	txm               *postgres.TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

func newSnapshotArchiver(txm *postgres.TxManager) (*snapshotArchiver, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &snapshotArchiver{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

type snapshotRow struct {
	Date        string          `db:"date"`
	Compression compressionAlgo `db:"compression"`
	Body        []byte          `db:"body"`
}

func (a *snapshotArchiver) store(ctx context.Context, day *closing.ClosedDay) error {
	body, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	algo := compressionNone
	if len(body) >= a.compressThreshold {
		body = a.encoder.EncodeAll(body, nil)
		algo = compressionZstd
	}

	sql, args, err := postgres.Builder().
		Insert(closedDayTable).
		Columns("date", "compression", "body").
		Values(day.Date, algo, body).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert closed day: %w", err)
	}
	return nil
}

func (a *snapshotArchiver) load(ctx context.Context, date string) (*closing.ClosedDay, error) {
	sql, args, err := postgres.Builder().
		Select("date", "compression", "body").
		From(closedDayTable).
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row snapshotRow
	err = a.txm.GetQuerier(ctx).
		QueryRow(ctx, sql, args...).
		Scan(&row.Date, &row.Compression, &row.Body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("closed day", date)
		}
		return nil, fmt.Errorf("get closed day: %w", err)
	}

	body := row.Body
	if row.Compression == compressionZstd {
		body, err = a.decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
	}

	var day closing.ClosedDay
	if err := json.Unmarshal(body, &day); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &day, nil
}
