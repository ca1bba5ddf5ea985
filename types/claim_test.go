package types_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/quayside/ward/types"
)

func TestClaim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "claim test suit")
}

var _ = Describe("claim", func() {
	admin := Claim{Kind: "role", Value: "admin"}

	DescribeTable("canonical keys differ when any field differs",
		func(other Claim) {
			Expect(other.Key()).NotTo(Equal(admin.Key()))
		},
		Entry("different kind", Claim{Kind: "team", Value: "admin"}),
		Entry("different value", Claim{Kind: "role", Value: "editor"}),
		Entry("different value type", Claim{Kind: "role", Value: "admin", ValueType: "string"}),
		Entry("different issuer", Claim{Kind: "role", Value: "admin", Issuer: "hr"}),
		Entry("different original issuer", Claim{Kind: "role", Value: "admin", OriginalIssuer: "hr"}),
		Entry("extra property", Claim{Kind: "role", Value: "admin", Properties: []Property{{Key: "env", Value: "prod"}}}),
	)

	It("keys equal claims equally", func() {
		same := Claim{Kind: "role", Value: "admin"}
		Expect(same.Key()).To(Equal(admin.Key()))
	})

	It("keys are sensitive to property order", func() {
		ab := Claim{Kind: "k", Value: "v", Properties: []Property{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}}
		ba := Claim{Kind: "k", Value: "v", Properties: []Property{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}}
		Expect(ab.Key()).NotTo(Equal(ba.Key()))
	})

	It("does not confuse field boundaries", func() {
		joined := Claim{Kind: "rolea", Value: "dmin"}
		Expect(joined.Key()).NotTo(Equal(admin.Key()))
	})
})

var _ = Describe("claim set", func() {
	admin := Claim{Kind: "role", Value: "admin"}
	employee := Claim{Kind: "role", Value: "employee"}
	team := Claim{Kind: "team", Value: "eng"}

	It("adds claims once", func() {
		var s ClaimSet
		s = s.Add(admin, employee, admin)
		s = s.Add(admin, team)

		Expect(s).To(HaveLen(3))
		Expect(s.Contains(admin)).To(BeTrue())
		Expect(s.Contains(employee)).To(BeTrue())
		Expect(s.Contains(team)).To(BeTrue())
	})

	It("filters by kind", func() {
		s := ClaimSet{}.Add(admin, employee, team)

		Expect(s.OfKind("role")).To(ConsistOf(admin, employee))
		Expect(s.OfKind("team")).To(ConsistOf(team))
		Expect(s.OfKind("badge")).To(BeEmpty())
	})

	It("round-trips through serialization", func() {
		withProps := Claim{
			Kind:       "badge",
			Value:      "blue",
			Issuer:     "hr",
			Properties: []Property{{Key: "env", Value: "prod"}},
		}
		s := ClaimSet{}.Add(admin, withProps)

		raw, e := s.Serialize()
		Expect(e).To(Succeed())

		parsed, e := ParseClaimSet(raw)
		Expect(e).To(Succeed())
		Expect(parsed).To(Equal(s))
	})

	It("rejects malformed serializations", func() {
		_, e := ParseClaimSet("{not json")
		Expect(e).To(HaveOccurred())
	})
})

var _ = Describe("entities", func() {
	It("round-trips users and groups through their serialized form", func() {
		u, e := ParseUser(User("alice").String())
		Expect(e).To(Succeed())
		Expect(u).To(Equal(User("alice")))

		g, e := ParseGroup(Group("staff").String())
		Expect(e).To(Succeed())
		Expect(g).To(Equal(Group("staff")))

		ent, e := ParseEntity("group:staff")
		Expect(e).To(Succeed())
		Expect(ent).To(Equal(Group("staff")))
	})

	It("rejects foreign serializations", func() {
		_, e := ParseUser("group:staff")
		Expect(e).To(MatchError(ErrInvalidEntity))

		_, e = ParseEntity("article:thing")
		Expect(e).To(MatchError(ErrInvalidEntity))
	})
})
