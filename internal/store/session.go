package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// sessionStore はSessionStoreインターフェースの実装。
// カウンタ更新はSQLiteのMAX()で単調非減少を保証する（再送による
// 古いInterimが到着しても格納値が巻き戻らない）。
type sessionStore struct {
	d *Database
}

// NewSessionStore は新しいSessionStoreを生成する。
func NewSessionStore(d *Database) SessionStore {
	return &sessionStore{d: d}
}

// Start はStart受信時のセッションupsertを行う。
// INSERTを先に試み、session_id一意制約違反時は既存行の再開として
// stop_timeをクリアしstart_timeをリセットする（アプリ側ロックは持たない）。
func (s *sessionStore) Start(ctx context.Context, sess *model.Session) error {
	sess.UpdateTime = sess.StartTime
	err := s.d.db.WithContext(ctx).Create(sess).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create session: %w", err)
	}

	updates := map[string]any{
		"start_time":      sess.StartTime,
		"update_time":     sess.StartTime,
		"stop_time":       nil,
		"terminate_cause": "",
		"nas_ip":          sess.NasIP,
	}
	if sess.Username != "" {
		updates["username"] = sess.Username
	}
	if sess.FramedIP != "" {
		updates["framed_ip"] = sess.FramedIP
	}
	if sess.MacAddress != "" {
		updates["mac_address"] = sess.MacAddress
	}

	res := s.d.db.WithContext(ctx).Model(&model.Session{}).
		Where("session_id = ?", sess.SessionID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("restart session: %w", res.Error)
	}
	return nil
}

// UpdateInterim はカウンタとsession_timeを更新する。
// 行が存在しない場合はStart欠落とみなして作成する。
func (s *sessionStore) UpdateInterim(ctx context.Context, sess *model.Session) error {
	now := sess.UpdateTime
	updates := map[string]any{
		"update_time":   now,
		"session_time":  gorm.Expr("MAX(session_time, ?)", sess.SessionTime),
		"input_octets":  gorm.Expr("MAX(input_octets, ?)", sess.InputOctets),
		"output_octets": gorm.Expr("MAX(output_octets, ?)", sess.OutputOctets),
	}
	if sess.FramedIP != "" {
		updates["framed_ip"] = sess.FramedIP
	}

	res := s.d.db.WithContext(ctx).Model(&model.Session{}).
		Where("session_id = ?", sess.SessionID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Start欠落: 新規作成。INSERT競合時は一意制約に任せて更新に切り替える。
	if sess.StartTime.IsZero() {
		sess.StartTime = now
	}
	err := s.d.db.WithContext(ctx).Create(sess).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create session on interim: %w", err)
	}
	res = s.d.db.WithContext(ctx).Model(&model.Session{}).
		Where("session_id = ?", sess.SessionID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update session after race: %w", res.Error)
	}
	return nil
}

// Stop はstop_time・最終カウンタ・切断理由を記録する。
// 対象行がなければ終了済みセッションとして作成する。重複Stopは
// 同じ値での上書きになるため冪等。
func (s *sessionStore) Stop(ctx context.Context, sessionID string, data *SessionStopData) error {
	updates := map[string]any{
		"stop_time":       data.StopTime,
		"update_time":     data.StopTime,
		"terminate_cause": data.TerminateCause,
		"session_time":    gorm.Expr("MAX(session_time, ?)", data.SessionTime),
		"input_octets":    gorm.Expr("MAX(input_octets, ?)", data.InputOctets),
		"output_octets":   gorm.Expr("MAX(output_octets, ?)", data.OutputOctets),
	}

	res := s.d.db.WithContext(ctx).Model(&model.Session{}).
		Where("session_id = ?", sessionID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("stop session: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	stopTime := data.StopTime
	sess := &model.Session{
		SessionID:      sessionID,
		StartTime:      data.StopTime.Add(-time.Duration(data.SessionTime) * time.Second),
		UpdateTime:     data.StopTime,
		StopTime:       &stopTime,
		SessionTime:    data.SessionTime,
		InputOctets:    data.InputOctets,
		OutputOctets:   data.OutputOctets,
		TerminateCause: data.TerminateCause,
	}
	err := s.d.db.WithContext(ctx).Create(sess).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create session on stop: %w", err)
	}
	return nil
}

func (s *sessionStore) FindBySessionID(ctx context.Context, sessionID string) (*model.Session, error) {
	var sess model.Session
	err := s.d.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &sess, nil
}

func (s *sessionStore) ListActive(ctx context.Context) ([]model.Session, error) {
	var list []model.Session
	err := s.d.db.WithContext(ctx).
		Where("stop_time IS NULL").
		Order("start_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return list, nil
}

func (s *sessionStore) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := s.d.db.WithContext(ctx).Model(&model.Session{}).
		Where("stop_time IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return count, nil
}
