// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, expense, system
	Action   string // ユーザー向け対処方法
	Count    int    // 参照件数（CATEGORY_IN_USEのみ使用）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	ErrCodeDuplicateCategory  = "DUPLICATE_CATEGORY"
	ErrCodeCategoryInUse      = "CATEGORY_IN_USE"
	ErrCodeExpenseNotFound    = "EXPENSE_NOT_FOUND"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不在とパスワード不一致を区別しない定型メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewCategoryNotFoundError はカテゴリ未検出エラーを生成する。
// 他ユーザー所有のカテゴリも未検出として扱う。
func NewCategoryNotFoundError(categoryID string) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryNotFound,
		Message:  fmt.Sprintf("指定されたカテゴリが見つかりません: %s", categoryID),
		Category: "expense",
		Action:   "カテゴリIDを確認してください。",
	}
}

// NewDuplicateCategoryError はカテゴリ名重複エラーを生成する。
func NewDuplicateCategoryError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCategory,
		Message:  fmt.Sprintf("同じ名前のカテゴリが既に存在します: %s", name),
		Category: "validation",
		Action:   "別のカテゴリ名を指定してください。",
	}
}

// NewCategoryInUseError は使用中カテゴリの削除拒否エラーを生成する。
// countは参照している支出の件数。
func NewCategoryInUseError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryInUse,
		Message:  fmt.Sprintf("このカテゴリは%d件の支出から参照されているため削除できません。", count),
		Category: "expense",
		Action:   "カテゴリに紐づく支出を先に削除してください。",
		Count:    count,
	}
}

// NewExpenseNotFoundError は支出未検出エラーを生成する。
func NewExpenseNotFoundError(expenseID string) *APIError {
	return &APIError{
		Code:     ErrCodeExpenseNotFound,
		Message:  fmt.Sprintf("指定された支出が見つかりません: %s", expenseID),
		Category: "expense",
		Action:   "支出IDを確認してください。",
	}
}

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   fmt.Sprintf("%s を指定してください。", field),
	}
}

// NewInvalidAmountError は金額不正エラーを生成する。
func NewInvalidAmountError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  "金額が不正です。正の数値を指定してください。",
		Category: "validation",
		Action:   "0より大きい有効な数値を入力してください。",
	}
}

// NewInvalidCategoryError は支出作成時のカテゴリ指定不正エラーを生成する。
// 存在しない・他ユーザー所有・ID形式不正のいずれもこのエラーとして扱う。
func NewInvalidCategoryError(categoryID string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("指定されたカテゴリは使用できません: %s", categoryID),
		Category: "validation",
		Action:   "カテゴリ一覧に存在するカテゴリIDを指定してください。",
	}
}

// NewInvalidDateError は日付不正エラーを生成する。
func NewInvalidDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付の形式が不正です: %s", value),
		Category: "validation",
		Action:   "YYYY-MM-DD形式またはRFC3339形式で指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディ不正エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
