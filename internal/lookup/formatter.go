package lookup

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "pension-webhook/internal/common/errors"
)

// Reply texts.
const (
	MessageFormatError        = "입력 형식이 올바르지 않습니다. 띄어쓰기 없이 입력해주세요. 예) 홍길동10999999"
	MessageEnrolled           = "현재 퇴직연금에 가입되어 있으며, '%s' 계좌를 이용 중입니다."
	MessageNotEnrolled        = "현재 퇴직연금 미가입 상태입니다. 이랜드 퇴직연금은 매년 12월에 신규가입 가능합니다."
	MessageNotEligible        = "현재 퇴직연금 가입 대상자가 아닙니다. 1년 미만 근로자가 아니라면, 입력 정보를 다시 확인해주세요."
	MessageDatasetUnavailable = "일시적으로 퇴직연금 정보를 조회할 수 없습니다. 잠시 후 다시 시도해주세요."
	MessageInternalError      = "서버 오류가 발생했습니다: %s"
)

// Classify maps a lookup error onto the shared error taxonomy. Errors that
// are already classified pass through.
func Classify(err error) *apperrors.StandardError {
	if err == nil {
		return nil
	}
	var stdErr *apperrors.StandardError
	switch {
	case errors.As(err, &stdErr):
		return stdErr
	case errors.Is(err, ErrInvalidFormat):
		return apperrors.NewFormatError(err.Error())
	case errors.Is(err, ErrDatasetUnavailable):
		return apperrors.NewDatasetUnavailableError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}

// Format renders exactly one reply text and its HTTP status.
func Format(result Result, err error) (string, int) {
	if stdErr := Classify(err); stdErr != nil {
		status := apperrors.HTTPStatus(stdErr.Code)
		switch stdErr.Code {
		case apperrors.ErrCodeFormatError:
			return MessageFormatError, status
		case apperrors.ErrCodeDatasetUnavailable:
			return MessageDatasetUnavailable, status
		default:
			detail := stdErr.Details
			if detail == "" {
				detail = stdErr.Message
			}
			return fmt.Sprintf(MessageInternalError, detail), http.StatusInternalServerError
		}
	}

	switch result.Classification {
	case Enrolled:
		return fmt.Sprintf(MessageEnrolled, result.Brokerage), http.StatusOK
	case NotEnrolled:
		return MessageNotEnrolled, http.StatusOK
	case NotEligible:
		return MessageNotEligible, http.StatusOK
	default:
		return fmt.Sprintf(MessageInternalError, "unclassified result"), http.StatusInternalServerError
	}
}

// Outcome is a low-cardinality label for metrics and logs.
func Outcome(result Result, err error) string {
	if stdErr := Classify(err); stdErr != nil {
		switch stdErr.Code {
		case apperrors.ErrCodeFormatError:
			return "format_error"
		case apperrors.ErrCodeDatasetUnavailable:
			return "dataset_unavailable"
		default:
			return "internal_error"
		}
	}
	if result.Classification == "" {
		return "internal_error"
	}
	return string(result.Classification)
}
