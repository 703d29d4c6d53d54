package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/liga/internal/domain/week"
)

func sampleCapture() week.Capture {
	return week.Capture{
		Challenge:   "Fortaleza",
		TargetTotal: week.FlexInt{Set: true, Value: 30},
		UpdatedAt:   "2026-02-04T18:00:00Z",
		ByTeam: map[string]week.TeamCapture{
			"team1": {
				FinishTime:   "2026-02-04T12:00:00Z",
				PlayerPoints: map[string]float64{"Ana": 10, "Beto": 10},
			},
		},
	}
}

func TestFileStoreMemoryOnly(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory-only store", t, func() {
		store, err := NewFileStore()
		So(err, ShouldBeNil)

		Convey("When loading an unknown key", func() {
			_, _, err := store.Load(ctx, "liga.week.2026-2-3-10")

			Convey("Then it should report not found", func() {
				So(err, ShouldEqual, ErrNotFound)
			})
		})

		Convey("When saving a new capture", func() {
			rev, err := store.Save(ctx, "liga.week.2026-2-3-10", sampleCapture(), "")
			So(err, ShouldBeNil)
			So(rev, ShouldNotBeEmpty)

			Convey("Then it should load back with the same revision", func() {
				got, gotRev, err := store.Load(ctx, "liga.week.2026-2-3-10")
				So(err, ShouldBeNil)
				So(gotRev, ShouldEqual, rev)
				So(got.Challenge, ShouldEqual, "Fortaleza")
				So(got.ByTeam["team1"].PlayerPoints["Ana"], ShouldEqual, 10)
			})

			Convey("And saving with the current revision should succeed", func() {
				next := sampleCapture()
				next.ByTeam["team1"].PlayerPoints["Ana"] = 12
				rev2, err := store.Save(ctx, "liga.week.2026-2-3-10", next, rev)
				So(err, ShouldBeNil)
				So(rev2, ShouldNotEqual, rev)
			})

			Convey("And saving with a stale revision should conflict", func() {
				_, err := store.Save(ctx, "liga.week.2026-2-3-10", sampleCapture(), "stale")
				So(errors.Is(err, ErrRevisionConflict), ShouldBeTrue)
			})

			Convey("And creating an existing key with empty revision should conflict", func() {
				_, err := store.Save(ctx, "liga.week.2026-2-3-10", sampleCapture(), "")
				So(errors.Is(err, ErrRevisionConflict), ShouldBeTrue)
			})

			Convey("And the key should appear in Keys and Count", func() {
				keys, err := store.Keys(ctx)
				So(err, ShouldBeNil)
				So(keys, ShouldContain, "liga.week.2026-2-3-10")
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When saving with an empty key", func() {
			_, err := store.Save(ctx, "", sampleCapture(), "")

			Convey("Then it should be rejected", func() {
				So(err, ShouldEqual, ErrInvalidKey)
			})
		})
	})
}

func TestFileStoreIsolation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a saved capture", t, func() {
		store, err := NewFileStore()
		So(err, ShouldBeNil)

		original := sampleCapture()
		rev, err := store.Save(ctx, "liga.week.2026-2-3-10", original, "")
		So(err, ShouldBeNil)

		Convey("When the caller mutates its own copy after saving", func() {
			original.ByTeam["team1"].PlayerPoints["Ana"] = 999

			Convey("Then the stored capture should be unaffected", func() {
				got, _, err := store.Load(ctx, "liga.week.2026-2-3-10")
				So(err, ShouldBeNil)
				So(got.ByTeam["team1"].PlayerPoints["Ana"], ShouldEqual, 10)
			})
		})

		Convey("When a loaded capture is mutated", func() {
			got, _, err := store.Load(ctx, "liga.week.2026-2-3-10")
			So(err, ShouldBeNil)
			got.ByTeam["team1"].PlayerPoints["Ana"] = 999

			Convey("Then a fresh load should still see the stored value", func() {
				again, gotRev, err := store.Load(ctx, "liga.week.2026-2-3-10")
				So(err, ShouldBeNil)
				So(gotRev, ShouldEqual, rev)
				So(again.ByTeam["team1"].PlayerPoints["Ana"], ShouldEqual, 10)
			})
		})
	})
}

func TestFileStorePersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store backed by a file", t, func() {
		path := filepath.Join(t.TempDir(), "weeks.json")
		store, err := NewFileStore(WithPath(path))
		So(err, ShouldBeNil)

		rev, err := store.Save(ctx, "liga.week.2026-2-3-10", sampleCapture(), "")
		So(err, ShouldBeNil)

		Convey("When reopening the same file", func() {
			reopened, err := NewFileStore(WithPath(path))
			So(err, ShouldBeNil)

			Convey("Then the capture and revision should survive", func() {
				got, gotRev, err := reopened.Load(ctx, "liga.week.2026-2-3-10")
				So(err, ShouldBeNil)
				So(gotRev, ShouldEqual, rev)
				So(got.Challenge, ShouldEqual, "Fortaleza")
				So(got.TargetTotal.Set, ShouldBeTrue)
				So(got.TargetTotal.Value, ShouldEqual, 30)
			})
		})

		Convey("When the file holds entries without revisions", func() {
			handWritten := `{"liga.week.2026-1-27-10":{"capture":{"challenge":"Nether","targetTotal":20,"updatedAt":"","byTeam":{}}}}`
			So(os.WriteFile(path, []byte(handWritten), 0o600), ShouldBeNil)

			reopened, err := NewFileStore(WithPath(path))
			So(err, ShouldBeNil)

			Convey("Then a revision should be assigned on load", func() {
				_, gotRev, err := reopened.Load(ctx, "liga.week.2026-1-27-10")
				So(err, ShouldBeNil)
				So(gotRev, ShouldNotBeEmpty)
			})
		})

		Convey("When the file is missing", func() {
			missing := filepath.Join(t.TempDir(), "absent.json")
			fresh, err := NewFileStore(WithPath(missing))

			Convey("Then the store should start empty", func() {
				So(err, ShouldBeNil)
				So(fresh.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}
