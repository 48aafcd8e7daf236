package server

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/jrsteele09/docdash/permissions"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// templateFuncs are placeholders; each render binds them to the request's permission provider.
func templateFuncs(p *permissions.Provider) template.FuncMap {
	return template.FuncMap{
		"can": func(resource, action string) bool {
			return p != nil && p.Can(resource, action)
		},
		"hasPermission": func(key string) bool {
			return p != nil && p.HasPermission(key)
		},
	}
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Funcs(templateFuncs(nil)).Parse(string(content))
}

// bindPermissions clones tmpl with can/hasPermission reading from p.
func bindPermissions(tmpl *template.Template, p *permissions.Provider) (*template.Template, error) {
	clone, err := tmpl.Clone()
	if err != nil {
		return nil, err
	}
	return clone.Funcs(templateFuncs(p)), nil
}
