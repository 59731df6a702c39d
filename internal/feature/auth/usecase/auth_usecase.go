// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/shared/apperr"
)

// TokenIssuer はセッショントークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// Issue は指定されたユーザーIDをsubjectとする署名済みトークンを生成します。
	Issue(userID uuid.UUID) (string, error)
}

// VerificationMailer は検証メールの送信を抽象化します。
// 送信失敗はそのまま呼び出し元に返されます（検証リンクの唯一の配送経路のため）。
type VerificationMailer interface {
	SendVerification(ctx context.Context, to string, verificationID uuid.UUID) error
}

// Notifier はベストエフォートのイベント通知です。呼び出しはブロックせず、失敗も返しません。
type Notifier interface {
	UserSignedUp(email string)
	EmailVerified(email string)
}

// Cooldown は検証メール再送の間隔を制御します。
// Acquire はキーが空いていれば ttl の間確保して true を返します。
type Cooldown interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// authUsecase はユーザーと検証フローのビジネスロジックを実装します。
type authUsecase struct {
	users         UserRepository
	verifications VerificationRepository
	tokens        TokenIssuer
	mailer        VerificationMailer
	notifier      Notifier
	cooldown      Cooldown
	cooldownTTL   time.Duration
	now           func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// cooldown が nil または cooldownTTL が0以下の場合、再送間隔の制限は行いません。
func NewAuthUsecase(
	users UserRepository,
	verifications VerificationRepository,
	tokens TokenIssuer,
	mailer VerificationMailer,
	notifier Notifier,
	cooldown Cooldown,
	cooldownTTL time.Duration,
) *authUsecase {
	return &authUsecase{
		users:         users,
		verifications: verifications,
		tokens:        tokens,
		mailer:        mailer,
		notifier:      notifier,
		cooldown:      cooldown,
		cooldownTTL:   cooldownTTL,
		now:           time.Now,
	}
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録し、検証メールを送信します。
// メール重複は事前チェックせず、ユニーク制約違反をそのままConflictとして返します。
// パスワードの長さや文字種は制限しません。
func (u *authUsecase) Signup(ctx context.Context, email, password string) (*entity.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	user := &entity.User{Email: email, PasswordHash: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, "", apperr.Wrap(apperr.KindConflict, "email already registered", err)
		}
		return nil, "", apperr.Internal("failed to create user", err)
	}

	if err := u.startVerification(ctx, user); err != nil {
		return nil, "", err
	}

	u.notifier.UserSignedUp(user.Email)

	token, err := u.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login はメールアドレスとパスワードを検証し、ユーザーとトークンを返します。
// メール未登録とパスワード不一致は別のメッセージで返します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", apperr.Unauthorized("wrong email")
		}
		return nil, "", apperr.Internal("failed to find user", err)
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", apperr.Unauthorized("wrong password")
		}
		return nil, "", apperr.Internal("failed to verify password", err)
	}

	token, err := u.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendVerification は認証済みユーザーに検証メールを再送します。
func (u *authUsecase) SendVerification(ctx context.Context, user *entity.User) error {
	if user.IsVerified() {
		return apperr.Conflict("already verified")
	}
	return u.startVerification(ctx, user)
}

// Verify は検証IDを一度だけ消費し、検証済みユーザーとトークンを返します。
func (u *authUsecase) Verify(ctx context.Context, verificationID uuid.UUID) (*entity.User, string, error) {
	// 1. 検証レコードを取得
	v, err := u.verifications.FindByID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, ErrVerificationNotFound) {
			return nil, "", apperr.NotFound("verification not found")
		}
		return nil, "", apperr.Internal("failed to find verification", err)
	}

	// 2. 使用済みなら拒否
	if v.IsActivated() {
		return nil, "", apperr.Conflict("already done")
	}

	// 3. ユーザーに紐づかない検証は扱えない
	if v.UserID == nil {
		return nil, "", apperr.InvalidState("verification has no associated user")
	}

	// 4. activated_at IS NULL を条件に有効化（同時実行でも成功は1件のみ）
	if err := u.verifications.Activate(ctx, v.ID, *v.UserID, u.now()); err != nil {
		if errors.Is(err, ErrVerificationAlreadyActivated) {
			return nil, "", apperr.Conflict("already done")
		}
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", apperr.NotFound("user not found")
		}
		return nil, "", apperr.Internal("failed to activate verification", err)
	}

	user, err := u.users.FindByID(ctx, *v.UserID)
	if err != nil {
		return nil, "", apperr.Internal("failed to reload user", err)
	}

	// 5. 通知はベストエフォート
	u.notifier.EmailVerified(user.Email)

	token, err := u.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword はパスワードを再ハッシュして保存します。
func (u *authUsecase) ChangePassword(ctx context.Context, user *entity.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := u.users.UpdatePassword(ctx, user.ID, string(hashed), u.now()); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to change password", err)
	}
	return nil
}

// DeleteUser はユーザーを物理削除します。
func (u *authUsecase) DeleteUser(ctx context.Context, user *entity.User) error {
	if err := u.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to delete user", err)
	}
	return nil
}

// startVerification はPendingの検証レコードを作成し、検証メールを送信します。
func (u *authUsecase) startVerification(ctx context.Context, user *entity.User) error {
	if u.cooldown != nil && u.cooldownTTL > 0 {
		ok, err := u.cooldown.Acquire(ctx, "verification:"+user.ID.String(), u.cooldownTTL)
		switch {
		case err != nil:
			// ストアが落ちていても検証メールは送る
			zap.L().Warn("verification cooldown unavailable", zap.Error(err))
		case !ok:
			return apperr.TooManyRequests("verification email was sent recently")
		}
	}

	userID := user.ID
	v := &entity.Verification{UserID: &userID}
	if err := u.verifications.Create(ctx, v); err != nil {
		return apperr.Internal("failed to create verification", err)
	}

	if err := u.mailer.SendVerification(ctx, user.Email, v.ID); err != nil {
		return apperr.Internal("failed to send verification email", err)
	}
	return nil
}

func (u *authUsecase) issue(user *entity.User) (string, error) {
	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return "", apperr.Internal("failed to generate token", err)
	}
	return token, nil
}
