package docstore

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore keeps every leaf as a field of one hash and announces writes on
// a pub/sub channel so other processes refresh their subscriptions.
type RedisStore struct {
	rdb     *redis.Client
	treeKey string
	channel string
	origin  string

	hub    *hub
	pubsub *redis.PubSub
	stop   chan struct{}
	once   sync.Once
}

var _ Store = (*RedisStore)(nil)

type changeEvent struct {
	Origin string   `json:"origin"`
	Paths  []string `json:"paths"`
}

func NewRedisStore(ctx context.Context, rdb *redis.Client, namespace string) (*RedisStore, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "docstore: redis ping")
	}

	s := &RedisStore{
		rdb:     rdb,
		treeKey: namespace + ":tree",
		channel: namespace + ":changes",
		origin:  NewKey(),
		stop:    make(chan struct{}),
	}
	s.hub = newHub(s.Get)

	s.pubsub = rdb.Subscribe(ctx, s.channel)
	if _, err := s.pubsub.Receive(ctx); err != nil {
		_ = s.pubsub.Close()
		return nil, errors.Wrap(err, "docstore: redis subscribe")
	}
	go s.listen()

	return s, nil
}

func (s *RedisStore) listen() {
	for {
		select {
		case <-s.stop:
			return
		case msg, ok := <-s.pubsub.Channel():
			if !ok {
				return
			}
			var ev changeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("docstore: bad change event: %v", err)
				continue
			}
			if ev.Origin == s.origin {
				continue
			}
			s.hub.notify(context.Background(), ev.Paths...)
		}
	}
}

func (s *RedisStore) Get(ctx context.Context, path string) (Snapshot, error) {
	p, err := Clean(path)
	if err != nil {
		return Snapshot{}, err
	}
	sub, err := s.subtree(ctx, s.rdb, p)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := inflate(p, sub)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(p, raw), nil
}

type hashReader interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	HScan(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd
}

func (s *RedisStore) subtree(ctx context.Context, r hashReader, p string) (leaves, error) {
	out := leaves{}

	if p == "" {
		all, err := r.HGetAll(ctx, s.treeKey).Result()
		if err != nil {
			return nil, errors.Wrap(err, "docstore: redis hgetall")
		}
		for k, v := range all {
			out[k] = json.RawMessage(v)
		}
		return out, nil
	}

	v, err := r.HGet(ctx, s.treeKey, p).Result()
	switch {
	case err == nil:
		out[p] = json.RawMessage(v)
	case !errors.Is(err, redis.Nil):
		return nil, errors.Wrap(err, "docstore: redis hget")
	}

	var cursor uint64
	for {
		kv, next, err := r.HScan(ctx, s.treeKey, cursor, p+"/*", 500).Result()
		if err != nil {
			return nil, errors.Wrap(err, "docstore: redis hscan")
		}
		for i := 0; i+1 < len(kv); i += 2 {
			out[kv[i]] = json.RawMessage(kv[i+1])
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return out, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value any) error {
	p, err := Clean(path)
	if err != nil {
		return err
	}
	return s.apply(ctx, []write{{path: p, value: value}})
}

func (s *RedisStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := Clean(path)
	if err != nil {
		return err
	}
	ws, err := updateWrites(p, fields)
	if err != nil {
		return err
	}
	return s.apply(ctx, ws)
}

func (s *RedisStore) Push(ctx context.Context, path string, value any) (string, error) {
	return push(ctx, s, path, value)
}

func (s *RedisStore) NewKey() string {
	return NewKey()
}

func (s *RedisStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	p, err := Clean(path)
	if err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, p)
}

func (s *RedisStore) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stop)
		s.hub.close()
		err = s.pubsub.Close()
	})
	return err
}

// apply runs the whole batch in one script so the scope read and the swap
// happen atomically on the server. Writers never abort each other.
func (s *RedisStore) apply(ctx context.Context, ws []write) error {
	if len(ws) == 0 {
		return nil
	}
	puts, err := encodeWrites(ws)
	if err != nil {
		return err
	}

	roots := touched(ws)
	var anc []string
	for _, w := range ws {
		anc = append(anc, ancestors(w.path)...)
	}

	args := make([]any, 0, 2+len(roots)+len(anc)+2*len(puts))
	args = append(args, len(roots))
	for _, r := range roots {
		args = append(args, r)
	}
	args = append(args, len(anc))
	for _, a := range anc {
		args = append(args, a)
	}
	for k, v := range puts {
		args = append(args, k, string(v))
	}

	if err := applyScript.Run(ctx, s.rdb, []string{s.treeKey}, args...).Err(); err != nil {
		return errors.Wrap(err, "docstore: redis write")
	}

	payload, _ := json.Marshal(changeEvent{Origin: s.origin, Paths: roots})
	if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
		log.Printf("docstore: publish change: %v", err)
	}

	s.hub.notify(context.WithoutCancel(ctx), roots...)
	return nil
}

// applyScript mirrors buildPlan on the server.
// ARGV: root count, roots, ancestor count, ancestors, then field/value pairs.
// An empty root stands for the whole tree.
var applyScript = redis.NewScript(`
local key = KEYS[1]
local i = 1
local roots = {}
local n = tonumber(ARGV[i]); i = i + 1
for j = 1, n do roots[j] = ARGV[i]; i = i + 1 end
local anc = {}
n = tonumber(ARGV[i]); i = i + 1
for j = 1, n do anc[j] = ARGV[i]; i = i + 1 end

local puts = {}
local pairs_ = {}
while i <= #ARGV do
  puts[ARGV[i]] = true
  pairs_[#pairs_ + 1] = ARGV[i]
  pairs_[#pairs_ + 1] = ARGV[i + 1]
  i = i + 2
end

local seen = {}
local dels = {}
local function drop(f)
  if not puts[f] and not seen[f] then
    seen[f] = true
    dels[#dels + 1] = f
  end
end

for _, r in ipairs(roots) do
  if r == "" then
    for _, f in ipairs(redis.call('HKEYS', key)) do drop(f) end
  else
    if redis.call('HEXISTS', key, r) == 1 then drop(r) end
    local cursor = "0"
    repeat
      local res = redis.call('HSCAN', key, cursor, 'MATCH', r .. '/*', 'COUNT', '500')
      cursor = res[1]
      local kv = res[2]
      for j = 1, #kv, 2 do drop(kv[j]) end
    until cursor == "0"
  end
end
for _, a in ipairs(anc) do
  if redis.call('HEXISTS', key, a) == 1 then drop(a) end
end

local step = 500
for j = 1, #dels, step do
  redis.call('HDEL', key, unpack(dels, j, math.min(j + step - 1, #dels)))
end
for j = 1, #pairs_, 2 * step do
  redis.call('HSET', key, unpack(pairs_, j, math.min(j + 2 * step - 1, #pairs_)))
end
return #dels
`)
