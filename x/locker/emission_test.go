package locker

import (
	"math"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWithdrawableAmount(t *testing.T) {
	Convey("Given a cliff locker", t, func() {
		l := &Locker{DepositedAmount: 10000, WithdrawnAmount: 1000, CurrentUnlockDate: 500}

		Convey("Nothing is released before the unlock date", func() {
			for _, now := range []lockbox.UnixTime{0, 1, 250, 499} {
				got, err := WithdrawableAmount(l, now)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 0)
			}
		})

		Convey("Everything left is released from the unlock date on", func() {
			for _, now := range []lockbox.UnixTime{500, 501, 10000} {
				got, err := WithdrawableAmount(l, now)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 9000)
			}
		})
	})

	Convey("Given a linear locker", t, func() {
		l := &Locker{
			DepositedAmount:   1000,
			Linear:            true,
			StartEmission:     100,
			CurrentUnlockDate: 120,
		}

		Convey("Release is proportional to the elapsed time", func() {
			got, err := WithdrawableAmount(l, 105)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 250)
		})

		Convey("Release is monotonic and complete at the unlock date", func() {
			var prev uint64
			for now := lockbox.UnixTime(90); now <= 130; now++ {
				got, err := WithdrawableAmount(l, now)
				So(err, ShouldBeNil)
				So(got, ShouldBeGreaterThanOrEqualTo, prev)
				prev = got
			}
			got, err := WithdrawableAmount(l, l.CurrentUnlockDate)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, l.DepositedAmount)
		})

		Convey("Withdrawn funds are subtracted", func() {
			l.WithdrawnAmount = 200
			got, err := WithdrawableAmount(l, 105)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 50)

			got, err = WithdrawableAmount(l, 101)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 0)

			got, err = WithdrawableAmount(l, 200)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 800)
		})

		Convey("Large deposits do not overflow", func() {
			l.DepositedAmount = math.MaxUint64
			got, err := WithdrawableAmount(l, 110)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, uint64(math.MaxUint64/2))
		})

		Convey("An empty period is rejected", func() {
			l.StartEmission = l.CurrentUnlockDate
			_, err := WithdrawableAmount(l, 110)
			So(errors.ErrState.Is(err), ShouldBeTrue)
		})
	})
}

func TestMulDiv(t *testing.T) {
	Convey("mulDiv truncates", t, func() {
		got, err := mulDiv(10, 35, 10000)
		So(err, ShouldBeNil)
		So(got, ShouldEqual, 0)

		got, err = mulDiv(10000, 35, 10000)
		So(err, ShouldBeNil)
		So(got, ShouldEqual, 35)

		got, err = mulDiv(7, 1, 2)
		So(err, ShouldBeNil)
		So(got, ShouldEqual, 3)
	})

	Convey("mulDiv reports overflow and division by zero", t, func() {
		_, err := mulDiv(math.MaxUint64, 2, 1)
		So(errors.ErrOverflow.Is(err), ShouldBeTrue)

		_, err = mulDiv(1, 1, 0)
		So(errors.ErrInput.Is(err), ShouldBeTrue)
	})
}
