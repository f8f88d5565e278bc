package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var (
	validate  = newValidator()
	yearRegex = regexp.MustCompile(`^\d{4}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return yearRegex.MatchString(fl.Field().String())
	})
	return v
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=2000"`
}

type refreshRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

type createMovieRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Year           string `json:"year" validate:"required,year"`
	ImageCoverLink string `json:"imageCoverLink" validate:"required,url"`
}

type updateMovieRequest struct {
	Name           string `json:"name" validate:"omitempty,max=100"`
	Year           string `json:"year" validate:"omitempty,year"`
	ImageCoverLink string `json:"imageCoverLink" validate:"omitempty,url"`
}

type createReviewRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=10000"`
	Rating      *int   `json:"rating" validate:"required,min=0,max=10"`
}

type updateReviewRequest struct {
	Title       string `json:"title" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	Rating      *int   `json:"rating" validate:"omitempty,min=0,max=10"`
}

type createWebhookRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Token string `json:"token" validate:"omitempty,max=2000"`
}

type movieQuery struct {
	PageSize       int    `json:"pageSize" validate:"min=1,max=2000"`
	PageStartIndex int    `json:"pageStartIndex" validate:"min=0"`
	Year           string `json:"year" validate:"omitempty,year"`
}

type reviewQuery struct {
	PageSize       int  `json:"pageSize" validate:"min=1,max=2000"`
	PageStartIndex int  `json:"pageStartIndex" validate:"min=0"`
	Rating         *int `json:"rating" validate:"omitempty,min=0,max=10"`
}

// decodeJSON reads a JSON body into dst, trims its string fields and
// validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalid("request body is required")
		}
		return invalid("request body must be valid JSON")
	}
	trimStrings(dst)
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid(err.Error())
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, messageFor(fe))
	}
	return invalid(messages...)
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "year":
		return fmt.Sprintf("%s format needs to match YYYY", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func trimStrings(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return
	}
	rv = rv.Elem()
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

func parseMovieQuery(r *http.Request) (models.MovieFilter, error) {
	q := r.URL.Query()
	mq := movieQuery{PageSize: models.DefaultPageSize, Year: strings.TrimSpace(q.Get("year"))}

	var err error
	if mq.PageSize, err = intParam(q.Get("pageSize"), models.DefaultPageSize, "pageSize"); err != nil {
		return models.MovieFilter{}, err
	}
	if mq.PageStartIndex, err = intParam(q.Get("pageStartIndex"), 0, "pageStartIndex"); err != nil {
		return models.MovieFilter{}, err
	}
	if err := validateStruct(&mq); err != nil {
		return models.MovieFilter{}, err
	}

	return models.MovieFilter{
		Page: models.Page{Size: mq.PageSize, StartIndex: mq.PageStartIndex},
		Year: mq.Year,
	}, nil
}

func parseReviewQuery(r *http.Request, movieID int64) (models.ReviewFilter, error) {
	q := r.URL.Query()
	var (
		rq  reviewQuery
		err error
	)

	if rq.PageSize, err = intParam(q.Get("pageSize"), models.DefaultPageSize, "pageSize"); err != nil {
		return models.ReviewFilter{}, err
	}
	if rq.PageStartIndex, err = intParam(q.Get("pageStartIndex"), 0, "pageStartIndex"); err != nil {
		return models.ReviewFilter{}, err
	}
	if raw := q.Get("rating"); raw != "" {
		rating, err := intParam(raw, 0, "rating")
		if err != nil {
			return models.ReviewFilter{}, err
		}
		rq.Rating = &rating
	}
	if err := validateStruct(&rq); err != nil {
		return models.ReviewFilter{}, err
	}

	return models.ReviewFilter{
		Page:    models.Page{Size: rq.PageSize, StartIndex: rq.PageStartIndex},
		MovieID: movieID,
		Rating:  rq.Rating,
	}, nil
}

func intParam(raw string, def int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}
