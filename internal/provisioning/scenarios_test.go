package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/blueprints/internal/blueprint"
)

// TestScenarios is the entry point for the Ginkgo scenario suite.
func TestScenarios(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Provisioning Scenario Suite")
}

var _ = ginkgo.Describe("Deploy", func() {
	var (
		ctx      context.Context
		log      *callLog
		provider *fakeProvider
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		log = &callLog{}
		provider = &fakeProvider{log: log}
	})

	ginkgo.Context("with no add-ons and two teams", func() {
		ginkgo.It("creates the cluster and sets up both teams in order", func() {
			cfg := &blueprint.Config{
				ID: "scenario-a",
				Teams: []blueprint.Team{
					&fakeTeam{name: "team-a", log: log},
					&fakeTeam{name: "team-b", log: log},
				},
			}

			info, rec, err := testDeploy(ctx, cfg, provider)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ProvisionedAddOnKeys()).To(BeEmpty())
			Expect(log.all()).To(Equal([]string{"cluster", "team:team-a", "team:team-b"}))
			Expect(rec.EventsOfType(EventHookRun)).To(BeEmpty())
		})
	})

	ginkgo.Context("with one pending add-on and one add-on without a result", func() {
		ginkgo.It("registers only the pending add-on", func() {
			cfg := &blueprint.Config{
				ID: "scenario-b",
				AddOns: []blueprint.AddOn{
					&fakeAddOn{id: "A", log: log, run: resolving("X")},
					&fakeAddOn{id: "B", log: log},
				},
			}

			info, _, err := testDeploy(ctx, cfg, provider)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ProvisionedAddOnKeys()).To(Equal([]string{"A"}))
			v, ok := info.ProvisionedAddOn("A")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("X"))
		})
	})

	ginkgo.Context("when the second add-on's pending result rejects", func() {
		ginkgo.It("fails with a materialization error and runs no team or hook", func() {
			e := errors.New("E")
			team := &fakeTeam{name: "team-a", log: log}
			first := &hookAddOn{fakeAddOn: fakeAddOn{id: "first", log: log, run: resolving("ok")}}
			cfg := &blueprint.Config{
				ID: "scenario-c",
				AddOns: []blueprint.AddOn{
					first,
					&fakeAddOn{id: "second", log: log, run: rejecting(e)},
				},
				Teams: []blueprint.Team{team},
			}

			info, _, err := testDeploy(ctx, cfg, provider)
			Expect(info).To(BeNil())
			Expect(err).To(MatchError(ErrAddOnMaterialization))
			Expect(errors.Is(err, e)).To(BeTrue())

			var mat *AddOnMaterializationError
			Expect(errors.As(err, &mat)).To(BeTrue())
			Expect(mat.FailedIDs()).To(Equal([]string{"second"}))

			Expect(log.withPrefix("team:")).To(BeEmpty())
			Expect(log.withPrefix("hook:")).To(BeEmpty())
		})
	})

	ginkgo.Context("with two teams named alpha", func() {
		ginkgo.It("fails with a configuration error before the provider is called", func() {
			cfg := &blueprint.Config{
				ID: "scenario-d",
				Teams: []blueprint.Team{
					&fakeTeam{name: "alpha", log: log},
					&fakeTeam{name: "alpha", log: log},
				},
			}

			_, _, err := testDeploy(ctx, cfg, provider)
			Expect(err).To(MatchError(blueprint.ErrConfiguration))
			Expect(provider.calls).To(BeZero())
			Expect(log.all()).To(BeEmpty())
		})
	})

	ginkgo.DescribeTable("team and hook order follows configuration order",
		func(teams []string, hooks []string) {
			var addOns []blueprint.AddOn
			for _, id := range hooks {
				addOns = append(addOns, &hookAddOn{fakeAddOn: fakeAddOn{id: id, log: log}})
			}
			var ts []blueprint.Team
			for _, name := range teams {
				ts = append(ts, &fakeTeam{name: name, log: log})
			}

			_, _, err := testDeploy(ctx, &blueprint.Config{ID: "order", AddOns: addOns, Teams: ts}, provider)
			Expect(err).NotTo(HaveOccurred())

			var wantTeams, wantHooks []string
			for _, name := range teams {
				wantTeams = append(wantTeams, "team:"+name)
			}
			for _, id := range hooks {
				wantHooks = append(wantHooks, "hook:"+id)
			}
			Expect(log.withPrefix("team:")).To(Equal(wantTeams))
			Expect(log.withPrefix("hook:")).To(Equal(wantHooks))
		},
		ginkgo.Entry("single", []string{"a"}, []string{"x"}),
		ginkgo.Entry("reverse alphabetical", []string{"zeta", "beta", "alpha"}, []string{"z", "m", "a"}),
		ginkgo.Entry("no hooks", []string{"a", "b", "c"}, nil),
	)
})
