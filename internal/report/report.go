package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/stock"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/pkg/common"
)

const (
	defaultUserType    = "unknown"
	defaultOrderStatus = "pending"
)

type UserStats struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"byType"`
}

type OrderStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	Revenue      float64        `json:"revenue"`
	AverageValue float64        `json:"averageValue"`
	MedianValue  float64        `json:"medianValue"`
}

type InquiryStats struct {
	Total int `json:"total"`
}

// MonthPoint orders and revenue of one calendar month, keyed YYYY-MM
type MonthPoint struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Overview struct {
	Users     UserStats    `json:"users"`
	Orders    OrderStats   `json:"orders"`
	Inquiries InquiryStats `json:"inquiries"`
	Growth    []MonthPoint `json:"growth"`
	StockKeys int          `json:"stockKeys"`
}

// Snapshot is the input of Compute
type Snapshot struct {
	Users     []store.Document
	Orders    []store.Document
	Inquiries []store.Document
	Movements []store.Document
}

// Load reads the four collections concurrently
func Load(ctx context.Context, s store.Store) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	targets := map[domain.Collection]*[]store.Document{
		domain.Users:          &snap.Users,
		domain.Orders:         &snap.Orders,
		domain.Inquiries:      &snap.Inquiries,
		domain.StockMovements: &snap.Movements,
	}
	for coll, dst := range targets {
		coll, dst := coll, dst
		g.Go(func() error {
			docs, err := s.List(gctx, coll, 0)
			if err != nil {
				return errors.Wrapf(err, "load %s", coll)
			}
			*dst = docs
			return nil
		})
	}
	return snap, g.Wait()
}

// Amount coerces a stored order total. Missing or unparsable values count
// as zero.
func Amount(v interface{}) decimal.Decimal {
	switch tv := v.(type) {
	case nil:
		return decimal.Zero
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(tv, ",", "")))
		if err != nil {
			return decimal.Zero
		}
		return d
	case decimal.Decimal:
		return tv
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func monthOf(doc store.Document, now time.Time) string {
	ts, ok := common.ParseTime(doc["createdAt"])
	if !ok {
		ts = now
	}
	return ts.In(time.Local).Format("2006-01")
}

// Compute aggregates the snapshot. Growth is ordered by month.
func Compute(snap Snapshot, now time.Time) Overview {
	ov := Overview{
		Users:     UserStats{Total: len(snap.Users), ByType: map[string]int{}},
		Orders:    OrderStats{Total: len(snap.Orders), ByStatus: map[string]int{}},
		Inquiries: InquiryStats{Total: len(snap.Inquiries)},
		Growth:    []MonthPoint{},
		StockKeys: len(stock.Keys(snap.Movements)),
	}

	for _, u := range snap.Users {
		ov.Users.ByType[common.IfEmptyStr(cast.ToString(u["type"]), defaultUserType)]++
	}

	revenue := decimal.Zero
	values := make([]float64, 0, len(snap.Orders))
	months := make(map[string]*MonthPoint)
	monthRevenue := make(map[string]decimal.Decimal)
	for _, o := range snap.Orders {
		ov.Orders.ByStatus[common.IfEmptyStr(cast.ToString(o["status"]), defaultOrderStatus)]++

		amount := Amount(o["totalAmount"])
		revenue = revenue.Add(amount)
		values = append(values, amount.InexactFloat64())

		key := monthOf(o, now)
		mp, ok := months[key]
		if !ok {
			mp = &MonthPoint{Month: key}
			months[key] = mp
		}
		mp.Orders++
		monthRevenue[key] = monthRevenue[key].Add(amount)
	}
	ov.Orders.Revenue = revenue.InexactFloat64()
	if mean, err := stats.Mean(values); err == nil {
		ov.Orders.AverageValue = decimal.NewFromFloat(mean).Round(2).InexactFloat64()
	}
	if median, err := stats.Median(values); err == nil {
		ov.Orders.MedianValue = decimal.NewFromFloat(median).Round(2).InexactFloat64()
	}

	for key, mp := range months {
		mp.Revenue = monthRevenue[key].InexactFloat64()
		ov.Growth = append(ov.Growth, *mp)
	}
	sort.Slice(ov.Growth, func(i, j int) bool { return ov.Growth[i].Month < ov.Growth[j].Month })
	return ov
}
