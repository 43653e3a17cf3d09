package advisor_test

import (
	"slices"
	"testing"

	"github.com/okian/bottleneck/internal/domain/advisor"
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func advise(set *catalog.Set, cpuName, gpuName, mbName string) advisor.Advice {
	c, err := set.CPUs.Lookup(cpuName)
	So(err, ShouldBeNil)
	g, err := set.GPUs.Lookup(gpuName)
	So(err, ShouldBeNil)
	m, err := set.Motherboards.Lookup(mbName)
	So(err, ShouldBeNil)
	return advisor.New(set).Advise(advisor.Build{
		CPU: c, GPU: g, Motherboard: m, Result: scoring.Compute(c, g, m),
	})
}

func codes(adv advisor.Advice) []advisor.Code {
	out := make([]advisor.Code, 0, len(adv.Suggestions))
	for _, s := range adv.Suggestions {
		out = append(out, s.Code)
	}
	return out
}

func TestAdvise(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		set, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("When a flagship CPU is paired with an entry-level GPU", func() {
			adv := advise(set, "Intel Core i9-14900K", "NVIDIA GTX 1060 3GB", "Z790 (LGA1700)")

			Convey("Then a GPU upgrade near the CPU score is recommended", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{advisor.CodeGPUBottleneck})
				So(adv.Recommendation, ShouldNotBeNil)
				So(*adv.Recommendation, ShouldResemble, advisor.Recommendation{
					Kind: "gpu", Name: "NVIDIA RTX 5080 16GB",
				})
				msg := adv.Suggestions[0].Message
				So(msg, ShouldStartWith, "GPU bottleneck (34%)")
				So(msg, ShouldContainSubstring, "Upgrading to the NVIDIA RTX 5080 16GB")
			})
		})

		Convey("When a quad-core CPU drives a high-end GPU on a Gen 3 board", func() {
			adv := advise(set, "Intel Core i3-10100", "NVIDIA RTX 5080 16GB", "Z490 (LGA1200)")

			Convey("Then the CPU side, core count and PCIe advisories appear in order", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{
					advisor.CodeCPUBottleneck, advisor.CodeLowCoreCount, advisor.CodePCIeBandwidth,
				})
			})

			Convey("Then the recommendation falls back because no LGA1200 CPU is strong enough", func() {
				So(adv.Recommendation, ShouldNotBeNil)
				So(adv.Recommendation.Fallback, ShouldBeTrue)
				So(adv.Recommendation.Name, ShouldEqual, "a stronger CPU (socket LGA1200)")
				So(adv.Suggestions[0].Message, ShouldContainSubstring, "Upgrade to a stronger CPU (socket LGA1200)")
				So(adv.Suggestions[1].Message, ShouldContainSubstring, "(4 cores)")
				So(adv.Suggestions[2].Message, ShouldStartWith, "PCIe Gen 3")
			})
		})

		Convey("When the CPU socket does not match the board", func() {
			adv := advise(set, "AMD Ryzen 7 7800X3D", "NVIDIA RTX 5090 32GB", "Z790 (LGA1700)")

			Convey("Then the incompatibility comes first and the balanced pair follows", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{
					advisor.CodeIncompatibleSocket, advisor.CodeBalanced, advisor.CodeTuningTip,
				})
				So(adv.Recommendation, ShouldBeNil)
				So(adv.Suggestions[0].Message, ShouldEqual,
					"INCOMPATIBLE: AMD Ryzen 7 7800X3D uses socket AM5 but Z790 (LGA1700) requires socket LGA1700. This system will NOT boot.")
				So(adv.Suggestions[1].Message, ShouldContainSubstring, "within 4 pts")
			})
		})

		Convey("When a capable GPU has little VRAM", func() {
			adv := advise(set, "Intel Core i3-12100", "NVIDIA RTX 4050 6GB", "Z790 (LGA1700)")

			Convey("Then the VRAM advisory precedes the balanced pair", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{
					advisor.CodeLowVRAM, advisor.CodeBalanced, advisor.CodeTuningTip,
				})
				So(adv.Suggestions[0].Message, ShouldStartWith, "Only 6 GB VRAM")
			})
		})

		Convey("When the GPU is a low profile card", func() {
			adv := advise(set, "Intel Core i3-10100", "Intel Arc A310 LP 4GB", "Z490 (LGA1200)")

			Convey("Then the low profile advisory follows the bottleneck", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{
					advisor.CodeGPUBottleneck, advisor.CodeLowProfile,
				})
				So(adv.Recommendation.Fallback, ShouldBeFalse)
			})
		})

		Convey("When a mild bottleneck triggers nothing else", func() {
			adv := advise(set, "AMD Ryzen 5 5600X", "NVIDIA RTX 5060 8GB", "B550 (AM4)")

			Convey("Then only the solid build fallback is returned", func() {
				So(codes(adv), ShouldResemble, []advisor.Code{advisor.CodeSolidBuild})
				So(adv.Recommendation, ShouldBeNil)
			})
		})
	})
}

var order = []advisor.Code{
	advisor.CodeIncompatibleSocket,
	advisor.CodeGPUBottleneck,
	advisor.CodeCPUBottleneck,
	advisor.CodeLowCoreCount,
	advisor.CodePCIeBandwidth,
	advisor.CodeLowVRAM,
	advisor.CodeLowProfile,
	advisor.CodeBalanced,
	advisor.CodeTuningTip,
	advisor.CodeSolidBuild,
}

func TestAdvise_CatalogProperties(t *testing.T) {
	Convey("Given every CPU and GPU on a spread of boards", t, func() {
		set, err := catalog.Default()
		So(err, ShouldBeNil)
		adv := advisor.New(set)

		boards := []string{"Z790 (LGA1700)", "B450 (AM4)", "X670E (AM5)", "Z490 (LGA1200)"}
		var checked, empty, misordered, badRec, solidMixed int
		for _, name := range boards {
			m, err := set.Motherboards.Lookup(name)
			So(err, ShouldBeNil)
			for c := range set.CPUs.All() {
				for g := range set.GPUs.All() {
					checked++
					res := scoring.Compute(c, g, m)
					out := adv.Advise(advisor.Build{CPU: c, GPU: g, Motherboard: m, Result: res})
					got := codes(out)

					if len(got) == 0 {
						empty++
					}
					last := -1
					for _, code := range got {
						pos := slices.Index(order, code)
						if pos <= last {
							misordered++
						}
						last = pos
					}
					if slices.Contains(got, advisor.CodeSolidBuild) && len(got) != 1 {
						solidMixed++
					}

					dominant := slices.Contains(got, advisor.CodeGPUBottleneck) || slices.Contains(got, advisor.CodeCPUBottleneck)
					if dominant != (out.Recommendation != nil) {
						badRec++
						continue
					}
					if out.Recommendation == nil || out.Recommendation.Fallback {
						continue
					}
					switch res.Side {
					case scoring.SideGPU:
						rec, err := set.GPUs.Lookup(out.Recommendation.Name)
						if err != nil || rec.Name == g.Name || rec.PerfScore < min(c.PerfScore, 100)-6 {
							badRec++
						}
					case scoring.SideCPU:
						rec, err := set.CPUs.Lookup(out.Recommendation.Name)
						if err != nil || rec.Name == c.Name || rec.Socket != m.Socket || rec.PerfScore < min(g.PerfScore, 100)-6 {
							badRec++
						}
					}
				}
			}
		}

		Convey("Then every build gets ordered, consistent advice", func() {
			So(checked, ShouldEqual, 4*161*106)
			So(empty, ShouldEqual, 0)
			So(misordered, ShouldEqual, 0)
			So(solidMixed, ShouldEqual, 0)
			So(badRec, ShouldEqual, 0)
		})
	})
}
