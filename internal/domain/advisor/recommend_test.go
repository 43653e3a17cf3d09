package advisor_test

import (
	"slices"
	"testing"

	"github.com/okian/bottleneck/internal/domain/advisor"
	"github.com/okian/bottleneck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func gpus(perfs map[string]int, order ...string) []model.GPU {
	out := make([]model.GPU, 0, len(order))
	for _, name := range order {
		out = append(out, model.GPU{Name: name, VRAMGB: 8, PerfScore: perfs[name]})
	}
	return out
}

func TestRecommendGPU(t *testing.T) {
	Convey("Given a small GPU list", t, func() {
		list := gpus(map[string]int{"low": 50, "under": 78, "over": 82, "top": 95},
			"low", "under", "over", "top")

		Convey("When two candidates are equally close to the target", func() {
			rec := advisor.RecommendGPU(slices.Values(list), 80, "current")

			Convey("Then the earlier one wins", func() {
				So(rec, ShouldResemble, advisor.Recommendation{Kind: model.KindGPU, Name: "under"})
			})
		})

		Convey("When the best match is the current card", func() {
			rec := advisor.RecommendGPU(slices.Values(list), 78, "under")

			Convey("Then it is skipped", func() {
				So(rec.Name, ShouldEqual, "over")
			})
		})

		Convey("When the target exceeds 100", func() {
			rec := advisor.RecommendGPU(slices.Values(list), 140, "current")

			Convey("Then it is clamped before searching", func() {
				So(rec.Name, ShouldEqual, "top")
			})
		})

		Convey("When a candidate sits exactly six points under the target", func() {
			rec := advisor.RecommendGPU(slices.Values(list), 56, "current")

			Convey("Then it is still eligible", func() {
				So(rec.Name, ShouldEqual, "low")
			})
		})

		Convey("When nothing is within reach", func() {
			rec := advisor.RecommendGPU(slices.Values(list[:1]), 57, "current")

			Convey("Then the fallback phrase is returned", func() {
				So(rec, ShouldResemble, advisor.Recommendation{
					Kind: model.KindGPU, Name: "a higher-tier GPU", Fallback: true,
				})
			})
		})
	})
}

func TestRecommendCPU(t *testing.T) {
	Convey("Given CPUs on two sockets", t, func() {
		list := []model.CPU{
			{Name: "intel-fast", PerfScore: 90, Socket: "LGA1700", Cores: 8},
			{Name: "amd-mid", PerfScore: 70, Socket: "AM4", Cores: 6},
			{Name: "amd-fast", PerfScore: 88, Socket: "AM4", Cores: 8},
		}

		Convey("When searching for an AM4 upgrade", func() {
			rec := advisor.RecommendCPU(slices.Values(list), 90, "amd-mid", "AM4")

			Convey("Then only same-socket CPUs are considered", func() {
				So(rec, ShouldResemble, advisor.Recommendation{Kind: model.KindCPU, Name: "amd-fast"})
			})
		})

		Convey("When no CPU on the socket is strong enough", func() {
			rec := advisor.RecommendCPU(slices.Values(list), 90, "x", "LGA1200")

			Convey("Then the fallback names the socket", func() {
				So(rec.Fallback, ShouldBeTrue)
				So(rec.Name, ShouldEqual, "a stronger CPU (socket LGA1200)")
			})
		})
	})
}
