package docstore

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

// ChangeChannel is the postgres NOTIFY channel carrying change events.
const ChangeChannel = "docstore_changes"

const listenBackoff = 2 * time.Second

// GormStore keeps leaves in the documents table. Writes in one namespace are
// serialised with a transaction scoped advisory lock.
type GormStore struct {
	db        *gorm.DB
	namespace string
	lockKey   int64
	origin    string

	hub    *hub
	cancel context.CancelFunc
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, namespace string) *GormStore {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))

	s := &GormStore{
		db:        db,
		namespace: namespace,
		lockKey:   int64(h.Sum64() >> 1),
		origin:    NewKey(),
		cancel:    func() {},
	}
	s.hub = newHub(s.Get)
	return s
}

// Listen consumes change notifications from other processes until ctx ends
// or Close is called. It reconnects when the connection drops.
func (s *GormStore) Listen(ctx context.Context, dsn string) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		for {
			err := s.listenOnce(ctx, dsn)
			if ctx.Err() != nil {
				return
			}
			log.Printf("docstore: listener stopped: %v", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(listenBackoff):
			}
		}
	}()
}

func (s *GormStore) listenOnce(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return errors.Wrap(err, "listen")
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return errors.Wrap(err, "wait")
		}
		var ev struct {
			changeEvent
			Namespace string `json:"namespace"`
		}
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			log.Printf("docstore: bad change event: %v", err)
			continue
		}
		if ev.Namespace != s.namespace || ev.Origin == s.origin {
			continue
		}
		s.hub.notify(ctx, ev.Paths...)
	}
}

func (s *GormStore) Get(ctx context.Context, path string) (Snapshot, error) {
	p, err := Clean(path)
	if err != nil {
		return Snapshot{}, err
	}

	var docs []models.Document
	if err := s.subtreeQuery(s.db.WithContext(ctx), p).Find(&docs).Error; err != nil {
		return Snapshot{}, errors.Wrap(err, "docstore: select subtree")
	}

	sub := make(leaves, len(docs))
	for _, d := range docs {
		sub[d.Path] = json.RawMessage(d.Value)
	}
	raw, err := inflate(p, sub)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(p, raw), nil
}

func (s *GormStore) subtreeQuery(db *gorm.DB, p string) *gorm.DB {
	q := db.Model(&models.Document{}).Where("namespace = ?", s.namespace)
	if p == "" {
		return q
	}
	return q.Where(`path = ? OR path LIKE ? ESCAPE '\'`, p, escapeLike(p)+"/%")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *GormStore) Set(ctx context.Context, path string, value any) error {
	p, err := Clean(path)
	if err != nil {
		return err
	}
	return s.apply(ctx, []write{{path: p, value: value}})
}

func (s *GormStore) Update(ctx context.Context, path string, fields map[string]any) error {
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

func (s *GormStore) Push(ctx context.Context, path string, value any) (string, error) {
	return push(ctx, s, path, value)
}

func (s *GormStore) NewKey() string {
	return NewKey()
}

func (s *GormStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	p, err := Clean(path)
	if err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, p)
}

func (s *GormStore) Close() error {
	s.cancel()
	s.hub.close()
	return nil
}

func (s *GormStore) apply(ctx context.Context, ws []write) error {
	if len(ws) == 0 {
		return nil
	}
	puts, err := encodeWrites(ws)
	if err != nil {
		return err
	}
	paths := touched(ws)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", s.lockKey).Error; err != nil {
			return errors.Wrap(err, "lock")
		}

		existing, err := s.scope(tx, ws)
		if err != nil {
			return err
		}
		pl := buildPlan(ws, puts, existing)

		if len(pl.deletes) > 0 {
			if err := tx.Where("namespace = ? AND path IN ?", s.namespace, pl.deletes).
				Delete(&models.Document{}).Error; err != nil {
				return errors.Wrap(err, "delete leaves")
			}
		}

		if len(pl.puts) > 0 {
			now := time.Now().UTC()
			rows := make([]models.Document, 0, len(pl.puts))
			for k, v := range pl.puts {
				rows = append(rows, models.Document{
					Namespace: s.namespace,
					Path:      k,
					Value:     []byte(v),
					UpdatedAt: now,
				})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "path"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rows).Error; err != nil {
				return errors.Wrap(err, "upsert leaves")
			}
		}

		payload, _ := json.Marshal(struct {
			changeEvent
			Namespace string `json:"namespace"`
		}{changeEvent{Origin: s.origin, Paths: paths}, s.namespace})

		// Delivered by postgres on commit.
		return tx.Exec("SELECT pg_notify(?, ?)", ChangeChannel, string(payload)).Error
	})
	if err != nil {
		return errors.Wrap(err, "docstore: postgres write")
	}

	s.hub.notify(context.WithoutCancel(ctx), paths...)
	return nil
}

func (s *GormStore) scope(tx *gorm.DB, ws []write) ([]string, error) {
	seen := map[string]struct{}{}
	var anc []string

	for _, w := range ws {
		var paths []string
		if err := s.subtreeQuery(tx, w.path).Pluck("path", &paths).Error; err != nil {
			return nil, errors.Wrap(err, "select scope")
		}
		for _, p := range paths {
			seen[p] = struct{}{}
		}
		anc = append(anc, ancestors(w.path)...)
	}

	if len(anc) > 0 {
		var paths []string
		if err := tx.Model(&models.Document{}).
			Where("namespace = ? AND path IN ?", s.namespace, anc).
			Pluck("path", &paths).Error; err != nil {
			return nil, errors.Wrap(err, "select ancestors")
		}
		for _, p := range paths {
			seen[p] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}
