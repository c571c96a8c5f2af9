package partition

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPartitionScenarios(t *testing.T) {
	Convey("Given keys A,A,B,B,B,C", t, func() {
		f := keyed(t, "A", "A", "B", "B", "B", "C")

		Convey("Row mode with bound 4 packs whole groups greedily", func() {
			chunks, _, err := Partition(f, "key", 4, ModeRows)
			So(err, ShouldBeNil)
			So(len(chunks), ShouldEqual, 2)
			So(keysOf(chunks[0]), ShouldEqual, "AA")
			So(keysOf(chunks[1]), ShouldEqual, "BBBC")
		})

		Convey("Group mode with bound 1 gives one file per key", func() {
			chunks, _, err := Partition(f, "key", 1, ModeGroups)
			So(err, ShouldBeNil)
			So(len(chunks), ShouldEqual, 3)
			So(chunks[1].Rows, ShouldEqual, 3)
		})

		Convey("A missing key column yields no chunks", func() {
			chunks, details, err := Partition(f, "Foo", 1, ModeGroups)
			So(err, ShouldWrap, ErrMissingColumn)
			So(chunks, ShouldBeEmpty)
			So(details, ShouldBeEmpty)
		})

		Convey("No key ever spans two chunks", func() {
			for _, mode := range []Mode{ModeGroups, ModeRows} {
				chunks, _, err := Partition(f, "key", 2, mode)
				So(err, ShouldBeNil)
				owner := map[string]int{}
				for _, c := range chunks {
					for r := 0; r < c.Frame.Rows(); r++ {
						k := c.Frame.CellString(r, 0)
						if prev, ok := owner[k]; ok {
							So(prev, ShouldEqual, c.Index)
						}
						owner[k] = c.Index
					}
				}
			}
		})
	})
}
