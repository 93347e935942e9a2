package auth

// UserRecord はログイン可能なユーザーの資格情報です。
// 起動時に構築された後は変更されません。
type UserRecord struct {
	Username     string
	PasswordHash string // argon2idエンコード済み文字列
}

// CredentialStore はユーザー名から資格情報を引く読み取り専用のテーブルです。
// 共有される可変状態を持たないため、ロックは不要です。
type CredentialStore struct {
	byUsername map[string]UserRecord
}

// NewCredentialStore は空の資格情報ストアを作成します。
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		byUsername: map[string]UserRecord{},
	}
}

// Add はユーザーを登録します。起動時のシード処理からのみ呼ばれる想定です。
func (s *CredentialStore) Add(rec UserRecord) {
	s.byUsername[rec.Username] = rec
}

// Lookup はユーザー名で資格情報を引きます。
// 未知のユーザー名に対してはエラーではなく ok=false を返します。
func (s *CredentialStore) Lookup(username string) (UserRecord, bool) {
	rec, ok := s.byUsername[username]
	return rec, ok
}
