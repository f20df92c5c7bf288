package usecase

import (
	_ "embed"
	"strings"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

//go:embed catalog.json
var catalogData []byte

type catalog struct {
	Units    []model.Unit             `json:"units"`
	Courses  []model.Course           `json:"courses"`
	Practice []model.PracticeQuestion `json:"practice"`
	People   []model.Person           `json:"people"`
	Blog     struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Author      string              `json:"author"`
		Sections    []model.BlogSection `json:"sections"`
	} `json:"blog"`
}

// ContentUsecase serves the static learning catalog.
type ContentUsecase struct {
	Log     *zap.Logger
	catalog catalog
}

func NewContentUsecase(log *zap.Logger) *ContentUsecase {
	usecase := &ContentUsecase{Log: log}

	err := sonic.Unmarshal(catalogData, &usecase.catalog)
	if err != nil {
		log.Fatal("failed to parse embedded catalog", zap.Error(err))
	}

	return usecase
}

func (usecase *ContentUsecase) GetUnits() []model.Unit {
	return usecase.catalog.Units
}

func (usecase *ContentUsecase) GetCourses() []model.Course {
	return usecase.catalog.Courses
}

func (usecase *ContentUsecase) GetPractice() []model.PracticeQuestion {
	return usecase.catalog.Practice
}

func (usecase *ContentUsecase) GetPeople() []model.Person {
	return usecase.catalog.People
}

// GetPerson matches case-insensitively and treats '-' as a space, so "avery-stone" finds "Avery Stone".
func (usecase *ContentUsecase) GetPerson(name string) (model.Person, error) {
	wanted := strings.ToLower(strings.ReplaceAll(name, "-", " "))

	for _, person := range usecase.catalog.People {
		if strings.ToLower(person.Name) == wanted {
			return person, nil
		}
	}

	return model.Person{}, &model.ValidationError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "Could not find user.",
		Param:   "name",
	}
}

func (usecase *ContentUsecase) GetBlog() model.Blog {
	blog := model.Blog{
		Title:       usecase.catalog.Blog.Title,
		Description: usecase.catalog.Blog.Description,
		Sections:    usecase.catalog.Blog.Sections,
	}

	author, err := usecase.GetPerson(usecase.catalog.Blog.Author)
	if err == nil {
		blog.Author = author
	}

	return blog
}
