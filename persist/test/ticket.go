package test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/quayside/ward/types"
)

var ts types.TicketStore

// TestTicketStore sets the store the shared cases run against
func TestTicketStore(s types.TicketStore) {
	ts = s
}

var expiry = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// TicketCases are shared specs every TicketStore implementation must pass
var TicketCases = Describe("ticket store", func() {
	ctx := context.Background()

	It("finds inserted tickets by session and by token", func() {
		t := &types.Ticket{
			ID:               "t-find",
			SessionID:        "s-find",
			PersistenceToken: "tok-find",
			ExpiresAt:        expiry,
		}
		Expect(ts.Insert(ctx, t)).To(Succeed())

		bySession, e := ts.FindBySessionID(ctx, "s-find")
		Expect(e).To(Succeed())
		Expect(bySession.ID).To(Equal("t-find"))
		Expect(bySession.ExpiresAt.UTC()).To(BeTemporally("==", expiry))

		byToken, e := ts.FindByToken(ctx, "tok-find")
		Expect(e).To(Succeed())
		Expect(byToken.ID).To(Equal("t-find"))
	})

	It("fails lookups for unknown sessions and tokens with ErrNotFound", func() {
		_, e := ts.FindBySessionID(ctx, "s-unknown")
		Expect(e).To(MatchError(types.ErrNotFound))

		_, e = ts.FindByToken(ctx, "tok-unknown")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	It("never matches empty session ids or tokens", func() {
		orphan := &types.Ticket{ID: "t-orphan", ExpiresAt: expiry}
		Expect(ts.Insert(ctx, orphan)).To(Succeed())

		_, e := ts.FindBySessionID(ctx, "")
		Expect(e).To(MatchError(types.ErrNotFound))

		_, e = ts.FindByToken(ctx, "")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	It("overwrites on re-insert and on update", func() {
		t := &types.Ticket{ID: "t-up", SessionID: "s-up-1", PersistenceToken: "tok-up", ExpiresAt: expiry}
		Expect(ts.Insert(ctx, t)).To(Succeed())
		Expect(ts.Insert(ctx, t)).To(Succeed())

		t.SessionID = "s-up-2"
		Expect(ts.Update(ctx, t)).To(Succeed())

		got, e := ts.FindByToken(ctx, "tok-up")
		Expect(e).To(Succeed())
		Expect(got.SessionID).To(Equal("s-up-2"))

		_, e = ts.FindBySessionID(ctx, "s-up-1")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	It("fails updating a ticket never inserted", func() {
		missing := &types.Ticket{ID: "t-missing", SessionID: "s-missing", ExpiresAt: expiry}
		Expect(ts.Update(ctx, missing)).To(MatchError(types.ErrNotFound))
	})

	It("deletes idempotently", func() {
		t := &types.Ticket{ID: "t-del", SessionID: "s-del", ExpiresAt: expiry}
		Expect(ts.Insert(ctx, t)).To(Succeed())

		Expect(ts.Delete(ctx, "t-del")).To(Succeed())
		Expect(ts.Delete(ctx, "t-del")).To(Succeed())

		_, e := ts.FindBySessionID(ctx, "s-del")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	It("sweeps only tickets expiring before the threshold", func() {
		gone := &types.Ticket{ID: "t-gone", SessionID: "s-gone", ExpiresAt: expiry.Add(-time.Minute)}
		kept := &types.Ticket{ID: "t-kept", SessionID: "s-kept", ExpiresAt: expiry.Add(time.Minute)}
		Expect(ts.Insert(ctx, gone)).To(Succeed())
		Expect(ts.Insert(ctx, kept)).To(Succeed())

		Expect(ts.DeleteExpired(ctx, expiry)).To(Succeed())
		Expect(ts.DeleteExpired(ctx, expiry)).To(Succeed())

		_, e := ts.FindBySessionID(ctx, "s-gone")
		Expect(e).To(MatchError(types.ErrNotFound))

		_, e = ts.FindBySessionID(ctx, "s-kept")
		Expect(e).To(Succeed())
	})
})
