// Package model はドメインモデルを定義する。
package model

import "time"

// Category はユーザー定義の支出カテゴリを表す。
// 名前はユーザーごとに一意（大文字小文字を区別する完全一致）。
type Category struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// DefaultCategoryNames はサインアップ時に自動作成されるカテゴリ名。
// ユーザー作成と同一トランザクションで5件すべてを作成する。
var DefaultCategoryNames = []string{
	"Bills",
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
}

// Expense は1件の支出を表す。
// Amountは正の値のみ有効。DateはUTCのタイムスタンプとして扱う。
type Expense struct {
	ID          string
	UserID      string
	CategoryID  string
	Amount      float64
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// ExpenseWithCategory は支出とカテゴリ情報を結合した読み取り用モデル。
// 一覧APIはカテゴリを埋め込んで返すため、JOIN結果をこの形で受け取る。
type ExpenseWithCategory struct {
	Expense
	CategoryName string
}

// CategoryTotal はカテゴリごとの支出合計を表す。
// 期間内に支出が1件もないカテゴリは集計結果に含まれない。
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Amount       float64
}
