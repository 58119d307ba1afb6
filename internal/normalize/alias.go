// Package normalize maps heterogeneous input tables (Japanese/English
// column names, loose cell formats) onto the canonical schemas. It is
// deliberately lenient: malformed cells degrade to documented defaults
// and unusable rows are skipped with an explicit reason, never an error.
package normalize

import "strings"

// aliasTable lists the accepted column aliases per canonical field.
// Order matters twice: fields are resolved in declaration order, and
// within a field the first alias present in the input wins.
type aliasTable struct {
	fields  []string
	aliases map[string][]string
}

var salesAliases = aliasTable{
	fields: []string{
		"order_date", "channel", "product_code", "product_name",
		"category", "quantity", "sales_amount", "customer_id",
	},
	aliases: map[string][]string{
		"order_date":   {"注文日", "注文日時", "Date", "order_date", "注文年月日"},
		"channel":      {"チャネル", "販売チャネル", "channel", "モール"},
		"product_code": {"商品コード", "SKU", "品番", "product_code", "商品番号"},
		"product_name": {"商品名", "品名", "product", "product_name"},
		"category":     {"カテゴリ", "カテゴリー", "category", "商品カテゴリ"},
		"quantity":     {"数量", "個数", "quantity", "qty"},
		"sales_amount": {"売上金額", "売上", "売上高", "金額", "sales", "sales_amount", "合計金額"},
		"customer_id":  {"顧客ID", "customer_id", "会員ID", "購入者ID"},
	},
}

var costAliases = aliasTable{
	fields: []string{
		"product_code", "product_name", "category", "price", "cost", "cost_rate",
	},
	aliases: map[string][]string{
		"product_code": {"商品コード", "product_code", "SKU", "品番"},
		"product_name": {"商品名", "品名", "product_name", "品目名"},
		"category":     {"カテゴリ", "カテゴリー", "category"},
		"price":        {"売価", "単価", "price", "販売価格"},
		"cost":         {"原価", "仕入原価", "cost"},
		"cost_rate":    {"原価率", "cost_rate"},
	},
}

var subscriptionAliases = aliasTable{
	fields: []string{
		"month", "active_customers", "previous_active_customers",
		"new_customers", "repeat_customers", "cancelled_subscriptions",
		"marketing_cost", "ltv", "total_sales",
	},
	aliases: map[string][]string{
		"month":                     {"month", "年月", "月", "date", "対象月"},
		"active_customers":          {"active_customers", "アクティブ顧客数", "継続会員数", "契約数", "有効会員数"},
		"new_customers":             {"new_customers", "新規顧客数", "新規獲得数"},
		"repeat_customers":          {"repeat_customers", "リピート顧客数", "継続購入者数"},
		"cancelled_subscriptions":   {"cancelled_subscriptions", "解約件数", "解約数", "キャンセル数"},
		"previous_active_customers": {"previous_active_customers", "前月契約数", "前月アクティブ顧客"},
		"marketing_cost":            {"marketing_cost", "広告費", "販促費", "marketing"},
		"ltv":                       {"ltv", "LTV", "顧客生涯価値"},
		"total_sales":               {"total_sales", "売上高", "sales", "売上"},
	},
}

// columnMap resolves canonical field → input column index for one table.
// Matching is case-insensitive on the raw column name.
type columnMap map[string]int

// resolveColumns builds the canonical→index map for a header row.
func resolveColumns(header []string, table aliasTable) columnMap {
	byName := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, seen := byName[name]; !seen {
			byName[name] = i
		}
	}

	resolved := make(columnMap, len(table.fields))
	for _, field := range table.fields {
		for _, alias := range table.aliases[field] {
			if idx, ok := byName[strings.ToLower(alias)]; ok {
				resolved[field] = idx
				break
			}
		}
	}
	return resolved
}

// cell returns the named canonical field's raw cell in a row, and
// whether the field resolved to an input column at all.
func (m columnMap) cell(row []string, field string) (string, bool) {
	idx, ok := m[field]
	if !ok || idx >= len(row) {
		return "", ok
	}
	return strings.TrimSpace(row[idx]), true
}
