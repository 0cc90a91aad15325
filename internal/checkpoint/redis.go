package checkpoint

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/model/enum"
)

const (
	checkpointKeyPrefix = "checkpoint:"
	configKeyPrefix     = "symbol_config:"
)

// Redis stores checkpoints and symbol configs as hashes, one hash per
// (account, symbol), so state survives process restarts.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Checkpoint(ctx context.Context, accountID, symbol string) (model.Checkpoint, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, checkpointKeyPrefix+Key(accountID, symbol)).Result()
	if err != nil {
		return model.Checkpoint{}, false, errors.Wrap(err, "hgetall checkpoint")
	}
	if len(fields) == 0 {
		return model.Checkpoint{}, false, nil
	}
	current, err := strconv.ParseFloat(fields["current"], 64)
	if err != nil {
		return model.Checkpoint{}, false, errors.Wrap(err, "parse checkpoint current")
	}
	return model.Checkpoint{
		Current:       current,
		Direction:     enum.Direction(fields["direction"]),
		InitialTraded: fields["initialTraded"] == "1",
	}, true, nil
}

func (r *Redis) PutCheckpoint(ctx context.Context, accountID, symbol string, cp model.Checkpoint) error {
	initialTraded := "0"
	if cp.InitialTraded {
		initialTraded = "1"
	}
	err := r.rdb.HSet(ctx, checkpointKeyPrefix+Key(accountID, symbol),
		"current", strconv.FormatFloat(cp.Current, 'f', -1, 64),
		"direction", string(cp.Direction),
		"initialTraded", initialTraded,
	).Err()
	return errors.Wrap(err, "hset checkpoint")
}

func (r *Redis) DeleteCheckpoint(ctx context.Context, accountID, symbol string) error {
	return errors.Wrap(r.rdb.Del(ctx, checkpointKeyPrefix+Key(accountID, symbol)).Err(), "del checkpoint")
}

func (r *Redis) Config(ctx context.Context, accountID, symbol string) (model.SymbolConfig, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, configKeyPrefix+Key(accountID, symbol)).Result()
	if err != nil {
		return model.SymbolConfig{}, false, errors.Wrap(err, "hgetall symbol config")
	}
	if len(fields) == 0 {
		return model.SymbolConfig{}, false, nil
	}
	return model.SymbolConfig{
		Symbol:        fields["symbol"],
		Gap:           parseFloatField(fields, "GAP"),
		EclipseBuffer: parseFloatField(fields, "ECLIPSE_BUFFER"),
		Volume:        parseFloatField(fields, "volume"),
		Strategy:      enum.Strategy(fields["strategy"]),
		Direction:     enum.Direction(fields["direction"]),
	}, true, nil
}

func (r *Redis) PutConfig(ctx context.Context, accountID, symbol string, cfg model.SymbolConfig) error {
	err := r.rdb.HSet(ctx, configKeyPrefix+Key(accountID, symbol),
		"symbol", cfg.Symbol,
		"GAP", strconv.FormatFloat(cfg.Gap, 'f', -1, 64),
		"ECLIPSE_BUFFER", strconv.FormatFloat(cfg.EclipseBuffer, 'f', -1, 64),
		"volume", strconv.FormatFloat(cfg.Volume, 'f', -1, 64),
		"strategy", string(cfg.Strategy),
		"direction", string(cfg.Direction),
	).Err()
	return errors.Wrap(err, "hset symbol config")
}

func (r *Redis) DeleteConfig(ctx context.Context, accountID, symbol string) error {
	return errors.Wrap(r.rdb.Del(ctx, configKeyPrefix+Key(accountID, symbol)).Err(), "del symbol config")
}

func parseFloatField(fields map[string]string, name string) float64 {
	v, err := strconv.ParseFloat(fields[name], 64)
	if err != nil {
		return 0
	}
	return v
}
