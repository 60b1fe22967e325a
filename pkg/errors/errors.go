// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 木モデルの読み込み・推論で発生するエラーを構造化された型として表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("gbtree-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// nil を渡すと警告は破棄されます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// FeatureDriftWarning はドキュメント内の index フィールドと、
// feature 名から解決したインデックスが食い違った場合の警告です。
// 解決済みインデックスが常に優先されます。
type FeatureDriftWarning struct {
	Path          string
	Feature       string
	DocumentIndex int
	ResolvedIndex int
}

func (w *FeatureDriftWarning) Error() string {
	return fmt.Sprintf("feature %q at %s: document index %d differs from resolved index %d; using %d",
		w.Feature, displayPath(w.Path), w.DocumentIndex, w.ResolvedIndex, w.ResolvedIndex)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *FeatureDriftWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("path", displayPath(w.Path)).
		Str("feature", w.Feature).
		Int("document_index", w.DocumentIndex).
		Int("resolved_index", w.ResolvedIndex).
		Str("type", "FeatureDriftWarning")
}

// NewFeatureDriftWarning は新しいFeatureDriftWarningを作成します。
func NewFeatureDriftWarning(path, feature string, documentIndex, resolvedIndex int) *FeatureDriftWarning {
	return &FeatureDriftWarning{
		Path:          path,
		Feature:       feature,
		DocumentIndex: documentIndex,
		ResolvedIndex: resolvedIndex,
	}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ErrUnresolvedFeature は特徴量名を命名機関で解決できなかったことを示す番兵エラーです。
// このエラーは致命的であり、モデルは使用できません。
var ErrUnresolvedFeature = errors.New("unresolved feature")

// FormatError はドキュメントの必須フィールドが欠けている、
// または型が不正な場合のエラーです。呼び出し元で回復可能です。
type FormatError struct {
	Path   string // 失敗したノードへのパス（例: "/left/right"）
	Field  string // 問題のフィールド名
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("gbtree: malformed document at %s: %s", displayPath(e.Path), e.Reason)
	}
	return fmt.Sprintf("gbtree: malformed document at %s: field %q %s", displayPath(e.Path), e.Field, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", displayPath(e.Path)).
		Str("field", e.Field).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError は新しいFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(path, field, reason string) error {
	err := &FormatError{Path: path, Field: field, Reason: reason}
	return errors.WithStack(err)
}

// UnresolvedFeatureError は決定ノードの feature 名が命名機関に存在しない場合のエラーです。
// 特徴量メタデータとモデルの不整合を意味するため致命的として扱います。
type UnresolvedFeatureError struct {
	Path    string
	Feature string
}

func (e *UnresolvedFeatureError) Error() string {
	return fmt.Sprintf("gbtree: failed to find feature %q in config (node %s)", e.Feature, displayPath(e.Path))
}

// Unwrap は番兵エラー ErrUnresolvedFeature を返します。
func (e *UnresolvedFeatureError) Unwrap() error {
	return ErrUnresolvedFeature
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnresolvedFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", displayPath(e.Path)).
		Str("feature", e.Feature).
		Bool("fatal", true).
		Str("type", "UnresolvedFeatureError")
}

// NewUnresolvedFeatureError は新しいUnresolvedFeatureErrorを作成し、スタックトレースを付与します。
func NewUnresolvedFeatureError(path, feature string) error {
	err := &UnresolvedFeatureError{Path: path, Feature: feature}
	return errors.WithStack(err)
}

// IsFatal はエラーが回復不能（モデルを破棄すべき）かどうかを判定します。
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnresolvedFeature)
}

// DimensionError は特徴量ベクトルの長さがモデルの要求に満たない場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("gbtree: %s: feature vector too short. Expected at least %d features, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gbtree: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
