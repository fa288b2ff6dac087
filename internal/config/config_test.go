package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.HookTimeoutMs, convey.ShouldEqual, 5000)
			convey.So(cfg.Pipeline.EnhanceLowLight, convey.ShouldBeTrue)
			convey.So(cfg.Pipeline.Mirror, convey.ShouldBeFalse)
			convey.So(cfg.Pipeline.Thresholds.MinArea, convey.ShouldEqual, 300000)
			convey.So(cfg.Pipeline.Tracker.HistorySize, convey.ShouldEqual, 8)
		})
	})
}

func TestConfig_Load(t *testing.T) {
	convey.Convey("Given a clean environment", t, func() {
		t.Setenv("MUDRA_CONFIG", "")

		convey.Convey("When loading with no overrides", func() {
			cfg, err := config.Load()

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
		})

		convey.Convey("When an env var overrides the address", func() {
			t.Setenv("MUDRA_ADDR", ":9090")

			cfg, err := config.Load()

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
		})

		convey.Convey("When a YAML file overrides pipeline options", func() {
			path := filepath.Join(t.TempDir(), "mudra.yaml")
			yaml := "addr: \":7070\"\npipeline:\n  mirror: true\n  thresholds:\n    min_area: 2000\n    good_min: 10000\n    good_max: 60000\n    max_area: 150000\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0644), convey.ShouldBeNil)
			t.Setenv("MUDRA_CONFIG", path)

			cfg, err := config.Load()

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(cfg.Pipeline.Mirror, convey.ShouldBeTrue)
			convey.So(cfg.Pipeline.Thresholds.GoodMax, convey.ShouldEqual, 60000)
			// Untouched defaults survive the merge.
			convey.So(cfg.Pipeline.Tracker.MissTolerance, convey.ShouldEqual, 3)
		})

		convey.Convey("When the file holds invalid thresholds", func() {
			path := filepath.Join(t.TempDir(), "mudra.yaml")
			yaml := "pipeline:\n  thresholds:\n    min_area: 100\n    good_min: 50\n    good_max: 60\n    max_area: 70\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0644), convey.ShouldBeNil)
			t.Setenv("MUDRA_CONFIG", path)

			_, err := config.Load()

			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
