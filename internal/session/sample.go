package session

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// sampleProduct is one entry of the built-in demo catalog.
type sampleProduct struct {
	code     string
	name     string
	category string
	price    float64
	costRate float64
}

var sampleProducts = []sampleProduct{
	{"KS-001", "オーガニック化粧水", "スキンケア", 3200, 0.28},
	{"KS-002", "保湿クリーム", "スキンケア", 4500, 0.32},
	{"KS-003", "美容液セット", "スキンケア", 8800, 0.35},
	{"HC-001", "ヘアオイル", "ヘアケア", 2600, 0.25},
	{"HC-002", "スカルプシャンプー", "ヘアケア", 3400, 0.30},
	{"SP-001", "プロテインバー 12本", "サプリメント", 2400, 0.42},
	{"SP-002", "マルチビタミン 90日分", "サプリメント", 3900, 0.38},
	{"GD-001", "ギフトボックス", "ギフト", 6500, 0.40},
}

var sampleChannels = []string{"自社サイト", "楽天市場", "Amazon", "Yahoo!ショッピング"}

// SampleData builds a deterministic demo dataset: twelve months of
// orders ending at the given month, a cost master, and a monthly
// subscription feed. Headers are Japanese so the demo exercises the
// same alias resolution as real marketplace exports. The same seed
// always yields the same tables.
func SampleData(seed int64, lastMonth schema.Month) Sources {
	if lastMonth.IsZero() {
		lastMonth = schema.MonthOf(time.Now())
	}
	rng := rand.New(rand.NewSource(seed))

	months := make([]schema.Month, 12)
	m := lastMonth
	for i := 11; i >= 0; i-- {
		months[i] = m
		m = prevMonth(m)
	}

	sales := schema.Table{
		Header: []string{"注文日", "チャネル", "商品コード", "商品名", "カテゴリ", "数量", "売上金額", "顧客ID"},
	}
	for _, month := range months {
		orders := 60 + rng.Intn(40)
		for i := 0; i < orders; i++ {
			p := sampleProducts[rng.Intn(len(sampleProducts))]
			day := 1 + rng.Intn(28)
			qty := 1 + rng.Intn(3)
			amount := p.price * float64(qty)
			sales.Rows = append(sales.Rows, []string{
				fmt.Sprintf("%04d-%02d-%02d", month.Year, month.Mon, day),
				sampleChannels[rng.Intn(len(sampleChannels))],
				p.code,
				p.name,
				p.category,
				strconv.Itoa(qty),
				strconv.FormatFloat(amount, 'f', 0, 64),
				fmt.Sprintf("C%04d", 1+rng.Intn(400)),
			})
		}
	}

	costs := schema.Table{
		Header: []string{"商品コード", "商品名", "カテゴリ", "販売価格", "原価", "原価率"},
	}
	for _, p := range sampleProducts {
		costs.Rows = append(costs.Rows, []string{
			p.code,
			p.name,
			p.category,
			strconv.FormatFloat(p.price, 'f', 0, 64),
			strconv.FormatFloat(p.price*p.costRate, 'f', 0, 64),
			strconv.FormatFloat(p.costRate, 'f', 2, 64),
		})
	}

	subs := schema.Table{
		Header: []string{"対象月", "アクティブ顧客数", "前月契約数", "新規顧客数", "リピート顧客数", "解約数", "広告費", "LTV"},
	}
	active := 300 + rng.Intn(50)
	for _, month := range months {
		prevActive := active
		newCust := 15 + rng.Intn(25)
		cancelled := 5 + rng.Intn(12)
		active += newCust - cancelled
		subs.Rows = append(subs.Rows, []string{
			month.String(),
			strconv.Itoa(active),
			strconv.Itoa(prevActive),
			strconv.Itoa(newCust),
			strconv.Itoa(active - newCust),
			strconv.Itoa(cancelled),
			strconv.Itoa(350_000 + rng.Intn(200_000)),
			strconv.Itoa(24_000 + rng.Intn(8_000)),
		})
	}

	return Sources{
		Sales: []SalesSource{
			{Name: "サンプル売上データ", Table: sales},
		},
		Costs:        costs,
		Subscription: subs,
	}
}

func prevMonth(m schema.Month) schema.Month {
	t := m.Time().AddDate(0, -1, 0)
	return schema.Month{Year: t.Year(), Mon: t.Month()}
}
