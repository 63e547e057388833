package fight_test

import (
	"testing"

	"github.com/okian/arena/internal/domain/fight"
	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompose(t *testing.T) {
	Convey("Given a hero with a strictly greater level", t, func() {
		hero := model.Record{"name": "A", "level": int64(5), "powers": "flight", "picture": "a.png"}
		villain := model.Record{"name": "B", "level": int64(3), "powers": "none", "picture": "b.png"}
		location := model.Record{"name": "Loc"}

		Convey("When the fight is composed", func() {
			out := fight.Compose(hero, villain, location)

			Convey("Then the hero wins with its own fields", func() {
				So(out.WinnerName, ShouldEqual, "A")
				So(out.WinnerLevel, ShouldEqual, 5)
				So(out.WinnerPowers, ShouldEqual, "flight")
				So(out.WinnerPicture, ShouldEqual, "a.png")
				So(out.WinnerTeam, ShouldEqual, fight.TeamHeroes)
			})

			Convey("And the villain loses with its own fields", func() {
				So(out.LoserName, ShouldEqual, "B")
				So(out.LoserLevel, ShouldEqual, 3)
				So(out.LoserPowers, ShouldEqual, "none")
				So(out.LoserPicture, ShouldEqual, "b.png")
				So(out.LoserTeam, ShouldEqual, fight.TeamVillains)
			})

			Convey("And both fighters plus the location are echoed in full", func() {
				So(out.Hero, ShouldResemble, hero)
				So(out.Villain, ShouldResemble, villain)
				So(out.Location, ShouldResemble, location)
			})
		})
	})

	Convey("Given a villain with the greater level", t, func() {
		hero := model.Record{"name": "A", "level": int64(2)}
		villain := model.Record{"name": "B", "level": int64(7)}

		Convey("When the fight is composed", func() {
			out := fight.Compose(hero, villain, model.Record{"name": "Loc"})

			Convey("Then the villain wins", func() {
				So(out.WinnerName, ShouldEqual, "B")
				So(out.WinnerLevel, ShouldEqual, 7)
				So(out.WinnerTeam, ShouldEqual, fight.TeamVillains)
				So(out.LoserName, ShouldEqual, "A")
				So(out.LoserLevel, ShouldEqual, 2)
				So(out.LoserTeam, ShouldEqual, fight.TeamHeroes)
			})
		})
	})

	Convey("Given equal levels", t, func() {
		hero := model.Record{"name": "A", "level": int64(4)}
		villain := model.Record{"name": "B", "level": int64(4)}

		Convey("When the fight is composed", func() {
			out := fight.Compose(hero, villain, model.Record{"name": "Loc"})

			Convey("Then the tie goes to the villain, always", func() {
				So(out.WinnerName, ShouldEqual, "B")
				So(out.WinnerTeam, ShouldEqual, fight.TeamVillains)
				So(out.LoserName, ShouldEqual, "A")
				So(out.LoserTeam, ShouldEqual, fight.TeamHeroes)
			})
		})
	})

	Convey("Given fixed inputs", t, func() {
		hero := model.Record{"name": "A", "level": int64(5)}
		villain := model.Record{"name": "B", "level": int64(3)}
		location := model.Record{"name": "Loc"}

		Convey("When composed repeatedly", func() {
			first := fight.Compose(hero, villain, location)

			Convey("Then every call yields the identical outcome", func() {
				for i := 0; i < 10; i++ {
					So(fight.Compose(hero, villain, location), ShouldResemble, first)
				}
			})
		})
	})

	Convey("Given fighters with JSON-decoded float levels", t, func() {
		hero := model.Record{"name": "A", "level": float64(5)}
		villain := model.Record{"name": "B", "level": float64(3)}

		Convey("When the fight is composed", func() {
			out := fight.Compose(hero, villain, model.Record{"name": "Loc"})

			Convey("Then levels coerce and the hero wins", func() {
				So(out.WinnerName, ShouldEqual, "A")
				So(out.WinnerLevel, ShouldEqual, 5)
				So(out.LoserLevel, ShouldEqual, 3)
			})
		})
	})
}
