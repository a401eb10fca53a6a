package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the binding for the index template.
type Page struct {
	JobDescription   string
	FileName         string
	Error            string
	Loading          bool
	ShowReset        bool
	PickerGeneration uint64
	Results          ResultsView
}

func NewPage(state models.SessionState, pickerGeneration uint64) Page {
	page := Page{
		JobDescription:   state.JobDescription,
		Error:            state.ErrorText(),
		Loading:          state.IsLoading,
		ShowReset:        state.Results != nil,
		PickerGeneration: pickerGeneration,
		Results:          NewResultsView(state),
	}
	if state.FileName != nil {
		page.FileName = *state.FileName
	}
	return page
}

// NewEngine returns the fiber view engine over the embedded templates.
func NewEngine(reload bool) *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Reload(reload)
	return engine
}
