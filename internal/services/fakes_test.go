package services_test

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

// memDB is an in-memory Store and UnitOfWork. WithinTx snapshots every table
// and restores the snapshot when fn fails, which is enough to observe
// atomicity from the service layer.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users   map[int64]models.User
	items   map[int64]models.Item
	txns    map[int64]models.Transaction
	rentals map[int64]models.Rental
	notes   []models.Notification
	carts   map[int64]models.CartItem
	wishes  map[int64]models.WishlistEntry
	reviews []models.Review
	nextID  int64
	clock   time.Time

	// reads and writes count every repository call.
	reads, writes int

	failItemStatus error
	failNotes      error
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[int64]models.User{},
		items:   map[int64]models.Item{},
		txns:    map[int64]models.Transaction{},
		rentals: map[int64]models.Rental{},
		carts:   map[int64]models.CartItem{},
		wishes:  map[int64]models.WishlistEntry{},
		nextID:  1000,
		clock:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) now() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) addUser(id int64, name string, role models.Role) models.User {
	u := models.User{ID: id, Name: name, Email: name + "@campus.edu", Role: role, CreatedAt: db.now()}
	db.users[id] = u
	return u
}

func (db *memDB) addItem(it models.Item) models.Item {
	if it.Status == "" {
		it.Status = models.ItemAvailable
	}
	it.CreatedAt = db.now()
	db.items[it.ID] = it
	return it
}

func (db *memDB) item(id int64) models.Item {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.items[id]
}

func (db *memDB) notesFor(userID int64) []models.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []models.Notification
	for _, n := range db.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (db *memDB) cartSize(userID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, c := range db.carts {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

func (db *memDB) counts() (txns, rentals, notes int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.txns), len(db.rentals), len(db.notes)
}

func (db *memDB) accesses() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.reads + db.writes
}

// ---- Store / UnitOfWork ----

func (db *memDB) Users() repo.Users                 { return memUsers{db} }
func (db *memDB) Items() repo.Items                 { return memItems{db} }
func (db *memDB) Transactions() repo.Transactions   { return memTxns{db} }
func (db *memDB) Rentals() repo.Rentals             { return memRentals{db} }
func (db *memDB) Notifications() repo.Notifications { return memNotes{db} }
func (db *memDB) Carts() repo.Carts                 { return memCarts{db} }
func (db *memDB) Wishlists() repo.Wishlists         { return memWishes{db} }
func (db *memDB) Reviews() repo.Reviews             { return memReviews{db} }

func (db *memDB) WithinTx(ctx context.Context, fn func(repo.Store) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	users, items := maps.Clone(db.users), maps.Clone(db.items)
	txns, rentals := maps.Clone(db.txns), maps.Clone(db.rentals)
	notes, carts := slices.Clone(db.notes), maps.Clone(db.carts)
	db.mu.Unlock()

	if err := fn(db); err != nil {
		db.mu.Lock()
		db.users, db.items, db.txns, db.rentals, db.notes = users, items, txns, rentals, notes
		db.carts = carts
		db.mu.Unlock()
		return err
	}
	return nil
}

// ---- users ----

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	u.ID = r.db.id()
	u.CreatedAt = r.db.now()
	r.db.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	u, ok := r.db.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	for _, u := range r.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

// ---- items ----

type memItems struct{ db *memDB }

func (r memItems) Create(_ context.Context, it models.Item) (models.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	it.ID = r.db.id()
	it.CreatedAt = r.db.now()
	r.db.items[it.ID] = it
	return it, nil
}

func (r memItems) GetByID(_ context.Context, id int64) (models.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	it, ok := r.db.items[id]
	if !ok {
		return models.Item{}, repo.ErrNotFound
	}
	return it, nil
}

func (r memItems) ListAvailable(_ context.Context) ([]models.Item, error) {
	return r.list(func(it models.Item) bool { return it.Status == models.ItemAvailable }), nil
}

func (r memItems) ListByOwner(_ context.Context, ownerID int64) ([]models.Item, error) {
	return r.list(func(it models.Item) bool { return it.OwnerID == ownerID }), nil
}

func (r memItems) list(keep func(models.Item) bool) []models.Item {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.Item{}
	for _, it := range r.db.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memItems) Update(_ context.Context, it models.Item) (models.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	cur, ok := r.db.items[it.ID]
	if !ok {
		return models.Item{}, repo.ErrNotFound
	}
	it.Status, it.OwnerID, it.CreatedAt = cur.Status, cur.OwnerID, cur.CreatedAt
	r.db.items[it.ID] = it
	return it, nil
}

func (r memItems) UpdateStatus(_ context.Context, id int64, status models.ItemStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if r.db.failItemStatus != nil {
		return r.db.failItemStatus
	}
	it, ok := r.db.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	it.Status = status
	r.db.items[id] = it
	return nil
}

func (r memItems) Transition(_ context.Context, id int64, from, to models.ItemStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if r.db.failItemStatus != nil {
		return r.db.failItemStatus
	}
	it, ok := r.db.items[id]
	if !ok || it.Status != from {
		return repo.ErrConflict
	}
	it.Status = to
	r.db.items[id] = it
	return nil
}

func (r memItems) ListByCategories(_ context.Context, categories []string) ([]models.Item, error) {
	return r.list(func(it models.Item) bool { return slices.Contains(categories, it.Category) }), nil
}

func (r memItems) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if _, ok := r.db.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.db.items, id)
	return nil
}

func (r memItems) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	var n int64
	for _, it := range r.db.items {
		if it.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// ---- transactions ----

type memTxns struct{ db *memDB }

func (r memTxns) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	t.ID = r.db.id()
	t.CreatedAt = r.db.now()
	r.db.txns[t.ID] = t
	return t, nil
}

func (r memTxns) nest(t models.Transaction) models.Transaction {
	if u, ok := r.db.users[t.BuyerID]; ok {
		t.Buyer = u.Summary()
	}
	if u, ok := r.db.users[t.SellerID]; ok {
		t.Seller = u.Summary()
	}
	if it, ok := r.db.items[t.ItemID]; ok {
		t.Item = &it
	}
	return t
}

func (r memTxns) GetByID(_ context.Context, id int64) (models.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	t, ok := r.db.txns[id]
	if !ok {
		return models.Transaction{}, repo.ErrNotFound
	}
	return r.nest(t), nil
}

func (r memTxns) Transition(_ context.Context, id int64, from, to models.TransactionStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	t, ok := r.db.txns[id]
	if !ok || t.Status != from {
		return repo.ErrConflict
	}
	t.Status = to
	r.db.txns[id] = t
	return nil
}

func (r memTxns) list(keep func(models.Transaction) bool) []models.Transaction {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.Transaction{}
	for _, t := range r.db.txns {
		if keep(t) {
			out = append(out, r.nest(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memTxns) ListPendingBySeller(_ context.Context, sellerID int64) ([]models.Transaction, error) {
	return r.list(func(t models.Transaction) bool {
		return t.SellerID == sellerID && t.Status == models.TxnPending
	}), nil
}

func (r memTxns) ListBySeller(_ context.Context, sellerID int64) ([]models.Transaction, error) {
	return r.list(func(t models.Transaction) bool { return t.SellerID == sellerID }), nil
}

func (r memTxns) ListByBuyer(_ context.Context, buyerID int64) ([]models.Transaction, error) {
	return r.list(func(t models.Transaction) bool { return t.BuyerID == buyerID }), nil
}

func (r memTxns) SellerTotals(_ context.Context, sellerID int64) (int64, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	var count, revenue int64
	for _, t := range r.db.txns {
		if t.SellerID != sellerID {
			continue
		}
		count++
		if t.Status == models.TxnCompleted {
			revenue += t.Amount
		}
	}
	return count, revenue, nil
}

// ---- rentals ----

type memRentals struct{ db *memDB }

func (r memRentals) Create(_ context.Context, rt models.Rental) (models.Rental, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	rt.ID = r.db.id()
	rt.CreatedAt = r.db.now()
	r.db.rentals[rt.ID] = rt
	return rt, nil
}

func (r memRentals) nest(rt models.Rental) models.Rental {
	if u, ok := r.db.users[rt.RenterID]; ok {
		rt.Renter = u.Summary()
	}
	if it, ok := r.db.items[rt.ItemID]; ok {
		rt.Item = &it
	}
	return rt
}

func (r memRentals) GetByID(_ context.Context, id int64) (models.Rental, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	rt, ok := r.db.rentals[id]
	if !ok {
		return models.Rental{}, repo.ErrNotFound
	}
	return r.nest(rt), nil
}

func (r memRentals) Transition(_ context.Context, id int64, from, to models.RentalStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	rt, ok := r.db.rentals[id]
	if !ok || rt.Status != from {
		return repo.ErrConflict
	}
	rt.Status = to
	r.db.rentals[id] = rt
	return nil
}

func (r memRentals) list(keep func(models.Rental) bool) []models.Rental {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.Rental{}
	for _, rt := range r.db.rentals {
		if keep(rt) {
			out = append(out, r.nest(rt))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memRentals) ownedBy(rt models.Rental, ownerID int64) bool {
	return r.db.items[rt.ItemID].OwnerID == ownerID
}

func (r memRentals) ListPendingByOwner(_ context.Context, ownerID int64) ([]models.Rental, error) {
	return r.list(func(rt models.Rental) bool {
		return rt.Status == models.RentalPending && r.ownedBy(rt, ownerID)
	}), nil
}

func (r memRentals) ListByOwner(_ context.Context, ownerID int64) ([]models.Rental, error) {
	out := r.list(func(rt models.Rental) bool { return r.ownedBy(rt, ownerID) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r memRentals) ListByRenter(_ context.Context, renterID int64) ([]models.Rental, error) {
	return r.list(func(rt models.Rental) bool { return rt.RenterID == renterID }), nil
}

func (r memRentals) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	var n int64
	for _, rt := range r.db.rentals {
		if r.ownedBy(rt, ownerID) {
			n++
		}
	}
	return n, nil
}

// ---- notifications ----

type memNotes struct{ db *memDB }

func (r memNotes) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if r.db.failNotes != nil {
		return models.Notification{}, r.db.failNotes
	}
	n.ID = r.db.id()
	n.CreatedAt = r.db.now()
	r.db.notes = append(r.db.notes, n)
	return n, nil
}

func (r memNotes) CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(ns))
	for _, n := range ns {
		created, err := r.Create(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (r memNotes) ListByUser(_ context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.Notification{}
	for i := len(r.db.notes) - 1; i >= 0; i-- {
		if r.db.notes[i].UserID == userID {
			out = append(out, r.db.notes[i])
		}
	}
	if offset >= len(out) {
		return []models.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ---- carts ----

type memCarts struct{ db *memDB }

func (r memCarts) Add(_ context.Context, userID, itemID int64, quantity int) (models.CartItem, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	for id, c := range r.db.carts {
		if c.UserID == userID && c.ItemID == itemID {
			c.Quantity += quantity
			r.db.carts[id] = c
			return c, false, nil
		}
	}
	c := models.CartItem{ID: r.db.id(), UserID: userID, ItemID: itemID, Quantity: quantity, CreatedAt: r.db.now()}
	r.db.carts[c.ID] = c
	return c, true, nil
}

func (r memCarts) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if _, ok := r.db.carts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.db.carts, id)
	return nil
}

func (r memCarts) ListByUser(_ context.Context, userID int64) ([]models.CartItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.CartItem{}
	for _, c := range r.db.carts {
		if c.UserID != userID {
			continue
		}
		if it, ok := r.db.items[c.ItemID]; ok {
			c.Item = &it
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCarts) Clear(_ context.Context, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	for id, c := range r.db.carts {
		if c.UserID == userID {
			delete(r.db.carts, id)
		}
	}
	return nil
}

// ---- wishlist ----

type memWishes struct{ db *memDB }

func (r memWishes) Add(_ context.Context, userID, itemID int64) (models.WishlistEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	for _, w := range r.db.wishes {
		if w.UserID == userID && w.ItemID == itemID {
			return models.WishlistEntry{}, repo.ErrDuplicate
		}
	}
	w := models.WishlistEntry{ID: r.db.id(), UserID: userID, ItemID: itemID, CreatedAt: r.db.now()}
	r.db.wishes[w.ID] = w
	return w, nil
}

func (r memWishes) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	if _, ok := r.db.wishes[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.db.wishes, id)
	return nil
}

func (r memWishes) ListByUser(_ context.Context, userID int64) ([]models.WishlistEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.WishlistEntry{}
	for _, w := range r.db.wishes {
		if w.UserID != userID {
			continue
		}
		if it, ok := r.db.items[w.ItemID]; ok {
			w.Item = &it
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ---- reviews ----

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, rv models.Review) (models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.writes++
	rv.ID = r.db.id()
	rv.CreatedAt = r.db.now()
	r.db.reviews = append(r.db.reviews, rv)
	return rv, nil
}

func (r memReviews) ListByItem(_ context.Context, itemID int64) ([]models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reads++
	out := []models.Review{}
	for i := len(r.db.reviews) - 1; i >= 0; i-- {
		rv := r.db.reviews[i]
		if rv.ItemID != itemID {
			continue
		}
		if u, ok := r.db.users[rv.UserID]; ok {
			rv.User = u.Summary()
		}
		out = append(out, rv)
	}
	return out, nil
}

// recordingPublisher captures published notifications.
type recordingPublisher struct {
	mu  sync.Mutex
	got []models.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, n)
	return nil
}

func (p *recordingPublisher) published() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.got)
}
