// Package settlementtest provides in-memory stand-ins for the store pieces a
// settlement touches, so flows can be tested end to end without mongo.
package settlementtest

import (
	"sort"
	"sync"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/auction"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/listing"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/settlement"
)

// Snapshotter is a store that can roll back to an earlier state. Snapshot
// returns the function that restores the current state.
type Snapshotter interface {
	Snapshot() func()
}

// Transactor serializes transactions and rolls every registered store back
// when fn fails.
type Transactor struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewTransactor(stores ...Snapshotter) *Transactor {
	return &Transactor{stores: stores}
}

func (t *Transactor) Register(stores ...Snapshotter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stores = append(t.stores, stores...)
}

func (t *Transactor) RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := c.Err(); err != nil {
		return err
	}
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.Snapshot())
	}
	if err := fn(c); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// Table is a keyed collection of row values
type Table[T any] struct {
	mu   sync.Mutex
	rows map[string]T
	seq  map[string]int
	next int
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: map[string]T{}, seq: map[string]int{}}
}

func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	return row, ok
}

// Insert adds row unless id exists
func (t *Table[T]) Insert(id string, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return false
	}
	t.rows[id] = row
	t.seq[id] = t.next
	t.next++
	return true
}

func (t *Table[T]) Put(id string, row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seq[id]; !ok {
		t.seq[id] = t.next
		t.next++
	}
	t.rows[id] = row
}

// All returns rows in insertion order
func (t *Table[T]) All() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return t.seq[ids[i]] < t.seq[ids[j]] })
	res := make([]T, 0, len(ids))
	for _, id := range ids {
		res = append(res, t.rows[id])
	}
	return res
}

func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table[T]) Snapshot() func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make(map[string]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	seq := make(map[string]int, len(t.seq))
	for k, v := range t.seq {
		seq[k] = v
	}
	next := t.next
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.rows, t.seq, t.next = rows, seq, next
	}
}

// TxRecordRepo keeps consumed transaction references in memory
type TxRecordRepo struct {
	*Table[settlement.TxRecord]
}

func NewTxRecordRepo() *TxRecordRepo {
	return &TxRecordRepo{NewTable[settlement.TxRecord]()}
}

func (r *TxRecordRepo) Insert(_ ctx.Ctx, record *settlement.TxRecord) error {
	record.TxRef = record.TxRef.ToLower()
	if !r.Table.Insert(string(record.TxRef), *record) {
		return domain.ErrAlreadyConsumed
	}
	return nil
}

func (r *TxRecordRepo) FindOne(_ ctx.Ctx, txRef domain.TxHash) (*settlement.TxRecord, error) {
	record, ok := r.Get(string(txRef.ToLower()))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ItemRepo keeps items in memory with the same version check as the store
type ItemRepo struct {
	*Table[item.Item]
}

func NewItemRepo(items ...item.Item) *ItemRepo {
	r := &ItemRepo{NewTable[item.Item]()}
	for _, i := range items {
		r.Put(i.Id, i)
	}
	return r
}

func (r *ItemRepo) FindOne(_ ctx.Ctx, id string) (*item.Item, error) {
	i, ok := r.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &i, nil
}

func (r *ItemRepo) FindAll(_ ctx.Ctx, optFns ...item.FindAllOptionsFunc) ([]*item.Item, error) {
	opts, err := item.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}
	res := []*item.Item{}
	for _, i := range r.All() {
		i := i
		if opts.OwnerId != nil && i.OwnerId != *opts.OwnerId {
			continue
		}
		res = append(res, &i)
	}
	return res, nil
}

func (r *ItemRepo) Insert(_ ctx.Ctx, i *item.Item) error {
	if !r.Table.Insert(i.Id, *i) {
		return domain.ErrConflict
	}
	return nil
}

func (r *ItemRepo) Save(_ ctx.Ctx, i *item.Item) error {
	cur, ok := r.Get(i.Id)
	if !ok || cur.Version != i.Version {
		return domain.ErrConcurrentUpdate
	}
	i.Version++
	r.Put(i.Id, *i)
	return nil
}

// AuctionRepo keeps auctions in memory in the (endsAt, id) order of the store
type AuctionRepo struct {
	*Table[auction.Auction]
}

func NewAuctionRepo() *AuctionRepo {
	return &AuctionRepo{NewTable[auction.Auction]()}
}

func (r *AuctionRepo) FindOne(_ ctx.Ctx, id string) (*auction.Auction, error) {
	a, ok := r.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *AuctionRepo) match(optFns []auction.FindAllOptionsFunc) ([]*auction.Auction, auction.FindAllOptions, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, opts, err
	}
	res := []*auction.Auction{}
	for _, a := range r.All() {
		a := a
		if opts.Status != nil && a.Status != *opts.Status {
			continue
		}
		if opts.SellerId != nil && a.SellerId != *opts.SellerId {
			continue
		}
		if opts.ItemId != nil && a.ItemId != *opts.ItemId {
			continue
		}
		if opts.EndsBefore != nil && !a.EndsAt.Before(*opts.EndsBefore) {
			continue
		}
		if opts.After != nil && !auctionAfter(&a, *opts.After) {
			continue
		}
		if opts.HasBid != nil && a.HasBid() != *opts.HasBid {
			continue
		}
		res = append(res, &a)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return auctionAfter(res[j], auction.Cursor{EndsAt: res[i].EndsAt, Id: res[i].Id})
	})
	return res, opts, nil
}

func auctionAfter(a *auction.Auction, c auction.Cursor) bool {
	if !a.EndsAt.Equal(c.EndsAt) {
		return a.EndsAt.After(c.EndsAt)
	}
	return a.Id > c.Id
}

func (r *AuctionRepo) FindAll(_ ctx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	res, opts, err := r.match(optFns)
	if err != nil {
		return nil, err
	}
	return page(res, opts.Offset, opts.Limit), nil
}

func (r *AuctionRepo) Count(_ ctx.Ctx, optFns ...auction.FindAllOptionsFunc) (int, error) {
	res, _, err := r.match(optFns)
	return len(res), err
}

func (r *AuctionRepo) Insert(_ ctx.Ctx, a *auction.Auction) error {
	if !r.Table.Insert(a.Id, *a) {
		return domain.ErrConflict
	}
	return nil
}

func (r *AuctionRepo) Save(_ ctx.Ctx, a *auction.Auction) error {
	cur, ok := r.Get(a.Id)
	if !ok || cur.Version != a.Version {
		return domain.ErrConcurrentUpdate
	}
	a.Version++
	r.Put(a.Id, *a)
	return nil
}

// BidRepo is the append-only bid history
type BidRepo struct {
	*Table[auction.Bid]
}

func NewBidRepo() *BidRepo {
	return &BidRepo{NewTable[auction.Bid]()}
}

func (r *BidRepo) Insert(_ ctx.Ctx, b *auction.Bid) error {
	r.Put(b.Id, *b)
	return nil
}

func (r *BidRepo) FindAll(_ ctx.Ctx, auctionId string) ([]*auction.Bid, error) {
	res := []*auction.Bid{}
	for _, b := range r.All() {
		b := b
		if b.AuctionId == auctionId {
			res = append(res, &b)
		}
	}
	return res, nil
}

// ListingRepo keeps listings in insertion order
type ListingRepo struct {
	*Table[listing.Listing]
}

func NewListingRepo() *ListingRepo {
	return &ListingRepo{NewTable[listing.Listing]()}
}

func (r *ListingRepo) FindOne(_ ctx.Ctx, id string) (*listing.Listing, error) {
	l, ok := r.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r *ListingRepo) match(optFns []listing.FindAllOptionsFunc) ([]*listing.Listing, listing.FindAllOptions, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, opts, err
	}
	res := []*listing.Listing{}
	for _, l := range r.All() {
		l := l
		if opts.Status != nil && l.Status != *opts.Status {
			continue
		}
		if opts.SellerId != nil && l.SellerId != *opts.SellerId {
			continue
		}
		if opts.ItemId != nil && l.ItemId != *opts.ItemId {
			continue
		}
		res = append(res, &l)
	}
	return res, opts, nil
}

func (r *ListingRepo) FindAll(_ ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	res, opts, err := r.match(optFns)
	if err != nil {
		return nil, err
	}
	return page(res, opts.Offset, opts.Limit), nil
}

func (r *ListingRepo) Count(_ ctx.Ctx, optFns ...listing.FindAllOptionsFunc) (int, error) {
	res, _, err := r.match(optFns)
	return len(res), err
}

func (r *ListingRepo) Insert(_ ctx.Ctx, l *listing.Listing) error {
	if !r.Table.Insert(l.Id, *l) {
		return domain.ErrConflict
	}
	return nil
}

func (r *ListingRepo) Save(_ ctx.Ctx, l *listing.Listing) error {
	cur, ok := r.Get(l.Id)
	if !ok || cur.Version != l.Version {
		return domain.ErrConcurrentUpdate
	}
	l.Version++
	r.Put(l.Id, *l)
	return nil
}

// page applies offset and limit the way the mongo store does, zero limit meaning all
func page[T any](rows []T, offset, limit *int32) []T {
	if offset != nil {
		if int(*offset) >= len(rows) {
			return rows[:0]
		}
		rows = rows[*offset:]
	}
	if limit != nil && *limit > 0 && int(*limit) < len(rows) {
		rows = rows[:*limit]
	}
	return rows
}

// Sink records every fact it is handed
type Sink struct {
	mu    sync.Mutex
	facts []notification.Fact
}

func (s *Sink) Notify(_ ctx.Ctx, facts ...notification.Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append(s.facts, facts...)
}

func (s *Sink) Facts() []notification.Fact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Fact(nil), s.facts...)
}

// Clock is a settable clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
