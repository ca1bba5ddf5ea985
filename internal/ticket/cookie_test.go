package ticket

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/quayside/ward/persist/fake"
	"github.com/quayside/ward/types"
)

var _ = Describe("cookie parsing", func() {
	b := NewBinder("scauthtoken", nil, nil, logr.Discard())

	DescribeTable("token extraction",
		func(cookies []string, token string, found bool) {
			got, ok := b.findToken(cookies)
			Expect(ok).To(Equal(found))
			Expect(got).To(Equal(token))
		},
		Entry("bare name", []string{"scauthtoken"}, "", false),
		Entry("empty value", []string{"scauthtoken="}, "", false),
		Entry("plain value", []string{"scauthtoken=abc"}, "abc", true),
		Entry("value with attributes", []string{"scauthtoken=abc;HttpOnly"}, "abc", true),
		Entry("attributes with values", []string{"scauthtoken=abc;Max-Age=3600;Path=/"}, "abc", true),
		Entry("no cookies at all", nil, "", false),
		Entry("other cookies only", []string{"theme=dark", "lang=en"}, "", false),
		Entry("name is case-sensitive", []string{"ScAuthToken=abc"}, "", false),
		Entry("name must match exactly", []string{"scauthtoken2=abc"}, "", false),
		Entry("found among others", []string{"theme=dark", "scauthtoken=abc;HttpOnly", "lang=en"}, "abc", true),
	)
})

var _ = Describe("cookie binder", func() {
	ctx := context.Background()

	expiry := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC).Add(time.Hour)

	var store *countingStore
	var b *Binder

	BeforeEach(func() {
		store = &countingStore{TicketStore: fake.NewTicketStore()}
		b = NewBinder("", store, fake.TxRunner{}, logr.Discard())
	})

	It("uses the default cookie name when none is configured", func() {
		Expect(b.SignOutCookie()).To(Equal("scauthtoken=;Max-Age=0;Path=/"))
	})

	It("reattaches a ticket to the current session by its token", func() {
		t := &types.Ticket{ID: "t-1", SessionID: "s-old", PersistenceToken: "tok-1", ExpiresAt: expiry}
		Expect(store.Insert(ctx, t)).To(Succeed())

		ok, e := b.TryReattach(ctx, []string{"scauthtoken=tok-1;HttpOnly"}, "s-new")
		Expect(e).To(Succeed())
		Expect(ok).To(BeTrue())

		rebound, e := store.FindBySessionID(ctx, "s-new")
		Expect(e).To(Succeed())
		Expect(rebound.ID).To(Equal("t-1"))

		// the old session no longer owns the ticket
		_, e = store.FindBySessionID(ctx, "s-old")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	It("makes no store writes when the token is unknown", func() {
		ok, e := b.TryReattach(ctx, []string{"scauthtoken=tok-missing"}, "s-new")
		Expect(e).To(Succeed())
		Expect(ok).To(BeFalse())
		Expect(store.writes).To(BeZero())
	})

	It("makes no store access at all when no cookie matches", func() {
		ok, e := b.TryReattach(ctx, []string{"theme=dark"}, "s-new")
		Expect(e).To(Succeed())
		Expect(ok).To(BeFalse())
		Expect(store.reads).To(BeZero())
		Expect(store.writes).To(BeZero())
	})

	It("refuses to reattach without a session", func() {
		_, e := b.TryReattach(ctx, []string{"scauthtoken=tok-1"}, "")
		Expect(e).To(MatchError(types.ErrInvalidSession))
	})

	It("round-trips a ticket through its auth cookie", func() {
		t := &types.Ticket{ID: "t-1", SessionID: "s-old", PersistenceToken: "tok-old", ExpiresAt: expiry}
		Expect(store.Insert(ctx, t)).To(Succeed())

		cookie, e := b.AuthCookie(ctx, t)
		Expect(e).To(Succeed())
		Expect(cookie).To(HavePrefix("scauthtoken="))
		Expect(cookie).To(HaveSuffix(";HttpOnly;Path=/"))

		token := strings.TrimSuffix(strings.TrimPrefix(cookie, "scauthtoken="), ";HttpOnly;Path=/")
		Expect(token).To(MatchRegexp(`^[0-9a-f]{32}$`))
		Expect(token).NotTo(Equal("tok-old"))

		ok, e := b.TryReattach(ctx, []string{cookie}, "s-new")
		Expect(e).To(Succeed())
		Expect(ok).To(BeTrue())

		rebound, e := store.FindBySessionID(ctx, "s-new")
		Expect(e).To(Succeed())
		Expect(rebound.ID).To(Equal("t-1"))
		Expect(rebound.PersistenceToken).To(Equal(token))
	})

	It("emits no cookie for a nil ticket", func() {
		cookie, e := b.AuthCookie(ctx, nil)
		Expect(e).To(Succeed())
		Expect(cookie).To(BeEmpty())
		Expect(store.writes).To(BeZero())
	})

	It("expires the cookie on sign out without touching the store", func() {
		Expect(b.SignOutCookie()).To(Equal("scauthtoken=;Max-Age=0;Path=/"))
		Expect(store.reads).To(BeZero())
		Expect(store.writes).To(BeZero())
	})
})

// countingStore counts reads and writes passing through to the inner store
type countingStore struct {
	types.TicketStore
	reads  int
	writes int
}

func (s *countingStore) FindBySessionID(ctx context.Context, sessionID string) (*types.Ticket, error) {
	s.reads++
	return s.TicketStore.FindBySessionID(ctx, sessionID)
}

func (s *countingStore) FindByToken(ctx context.Context, token string) (*types.Ticket, error) {
	s.reads++
	return s.TicketStore.FindByToken(ctx, token)
}

func (s *countingStore) Insert(ctx context.Context, t *types.Ticket) error {
	s.writes++
	return s.TicketStore.Insert(ctx, t)
}

func (s *countingStore) Update(ctx context.Context, t *types.Ticket) error {
	s.writes++
	return s.TicketStore.Update(ctx, t)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.writes++
	return s.TicketStore.Delete(ctx, id)
}
