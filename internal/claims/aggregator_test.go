package claims

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/quayside/ward/internal/testdata"
	"github.com/quayside/ward/persist/fake"
	"github.com/quayside/ward/types"
)

func TestAggregator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "claims aggregation")
}

var _ = Describe("aggregator", func() {
	ctx := context.Background()

	var source *fakeSource
	var agg *Aggregator

	BeforeEach(func() {
		source = newFakeSource()
		testdata.Load(source)
		agg = New(source, logr.Discard())
	})

	It("collects direct claims", func() {
		cs, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())
		Expect(cs.Contains(testdata.AdminClaim)).To(BeTrue())
	})

	It("collects group claims transitively", func() {
		cs, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())
		Expect(cs.Contains(testdata.TeamClaim)).To(BeTrue())
		Expect(cs.Contains(testdata.EmployeeClaim)).To(BeTrue())
	})

	It("returns each distinct claim exactly once across the diamond", func() {
		cs, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())

		expected := make([]interface{}, 0, len(testdata.AllAliceClaims))
		for _, c := range testdata.AllAliceClaims {
			expected = append(expected, c)
		}
		Expect([]types.Claim(cs)).To(ConsistOf(expected...))
	})

	It("visits every shared sub-group once", func() {
		_, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())
		Expect(source.groupVisits[testdata.Staff]).To(Equal(1))
	})

	It("is stable when the same claims are gathered again", func() {
		first, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())

		second, e := agg.Gather(ctx, testdata.Alice)
		Expect(e).To(Succeed())
		Expect(second).To(HaveLen(len(first)))
	})

	It("yields nothing for a user with no claims and no groups", func() {
		cs, e := agg.Gather(ctx, testdata.Bob)
		Expect(e).To(Succeed())
		Expect(cs).To(BeEmpty())
	})

	It("terminates on a cyclic group graph", func() {
		source.Nest("ring-b", "ring-a")
		source.Nest("ring-a", "ring-b")
		source.JoinGroup("carol", "ring-a")
		source.AddGroupClaim("ring-b", types.Claim{Kind: "badge", Value: "ring"})

		cs, e := agg.Gather(ctx, "carol")
		Expect(e).To(Succeed())
		Expect(cs.Contains(types.Claim{Kind: "badge", Value: "ring"})).To(BeTrue())
	})
})

type graph interface {
	types.ClaimSource
	AddUserClaim(types.User, types.Claim)
	JoinGroup(types.User, types.Group)
	AddGroupClaim(types.Group, types.Claim)
	Nest(sub, parent types.Group)
}

// fakeSource counts group visits on top of the shared in-memory claim source
type fakeSource struct {
	graph
	groupVisits map[types.Group]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		graph:       fake.NewClaimSource(),
		groupVisits: make(map[types.Group]int),
	}
}

func (s *fakeSource) GroupClaims(ctx context.Context, group types.Group) ([]types.Claim, error) {
	s.groupVisits[group]++
	return s.graph.GroupClaims(ctx, group)
}
