package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua script that prunes expired hold entries from a screening's hold set and
// returns the seat IDs still validly held.
var filterValidHolds = redis.NewScript(`
	local setKey = KEYS[1]
	local screeningId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local heldSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local holdKey = "seat_hold:" .. screeningId .. ":" .. seatId
			if redis.call("EXISTS", holdKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(heldSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return heldSeats
`)

// RedisSeatHoldStore gives a customer a short exclusive window on a seat
// while they complete checkout. Holds are advisory: the database claim is
// still the source of truth, so a crashed Redis only costs the courtesy
// window, never correctness.
type RedisSeatHoldStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSeatHoldStore(client redis.UniversalClient, ttl time.Duration) *RedisSeatHoldStore {
	return &RedisSeatHoldStore{client: client, ttl: ttl}
}

// Hold takes the seat for the customer if nobody else validly holds it.
func (s *RedisSeatHoldStore) Hold(ctx context.Context, screeningID, seatID, customerID int) (bool, error) {
	ok, err := s.client.SetNX(ctx, holdKey(screeningID, seatID), customerID, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set seat hold: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.client.SAdd(ctx, holdSetKey(screeningID), seatID).Err(); err != nil {
		return false, fmt.Errorf("failed to track seat hold: %w", err)
	}
	return true, nil
}

// HolderOf returns the customer holding the seat, or 0 if the seat is free.
func (s *RedisSeatHoldStore) HolderOf(ctx context.Context, screeningID, seatID int) (int, error) {
	customerID, err := s.client.Get(ctx, holdKey(screeningID, seatID)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read seat hold: %w", err)
	}
	return customerID, nil
}

// HeldSeats prunes expired holds and returns the seat IDs still held for the
// screening.
func (s *RedisSeatHoldStore) HeldSeats(ctx context.Context, screeningID int) ([]int64, error) {
	cmd := filterValidHolds.Run(ctx, s.client, []string{holdSetKey(screeningID)}, screeningID)
	seatIDs, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidHolds script: %w", err)
	}
	return seatIDs, nil
}

// Release drops the hold regardless of holder. Called after a successful
// claim or an abandoned checkout.
func (s *RedisSeatHoldStore) Release(ctx context.Context, screeningID, seatID int) error {
	if err := s.client.Del(ctx, holdKey(screeningID, seatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete seat hold: %w", err)
	}
	if err := s.client.SRem(ctx, holdSetKey(screeningID), seatID).Err(); err != nil {
		return fmt.Errorf("failed to untrack seat hold: %w", err)
	}
	return nil
}

func holdKey(screeningID, seatID int) string {
	return fmt.Sprintf("seat_hold:%d:%d", screeningID, seatID)
}

func holdSetKey(screeningID int) string {
	return fmt.Sprintf("screening_holds:%d", screeningID)
}
