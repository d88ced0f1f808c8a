package server

import (
	"encoding/base64"
	"html/template"
)

var funcs = template.FuncMap{
	// pngURL embeds chart bytes as a data URI; html/template would otherwise
	// filter the data: scheme.
	"pngURL": func(b []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
	},
	"balloonSlots": func() []int {
		return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	},
	"emptyTable": func(rows [][]string) bool {
		return len(rows) == 0 || len(rows[0]) == 0
	},
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: "Source Sans Pro", sans-serif; color: #262730; display: flex; }
aside { width: 18rem; min-height: 100vh; background: #f0f2f6; padding: 1.5rem; box-sizing: border-box; }
main { flex: 1; max-width: 60rem; padding: 2rem 3rem; }
h1 { font-size: 2.4rem; margin: 0 0 .5rem; }
h2 { font-size: 1.6rem; margin: 1.5rem 0 .5rem; }
.banner { background-color: tomato; color: white; font-size: 2.5rem; padding: 10px; margin: 1rem 0; }
.info, .success, .error, .side-info { padding: .75rem 1rem; border-radius: .25rem; margin: .5rem 0; }
.info, .side-info { background: #e6f0fb; color: #0c4a8c; }
.success { background: #e3f6e8; color: #1b5e20; }
.error { background: #fdecea; color: #a4262c; white-space: pre-wrap; }
.control { margin: .6rem 0; }
.control label.title { display: block; font-size: .9rem; margin-bottom: .2rem; }
.value { font-family: monospace; font-size: 1.1rem; }
pre.text { margin: .4rem 0; }
table { border-collapse: collapse; margin: .5rem 0; font-size: .85rem; }
th, td { border: 1px solid #dfe1e6; padding: .25rem .5rem; text-align: right; }
th { background: #fafafa; }
img.chart { max-width: 100%; margin: .5rem 0; }
.balloons { position: fixed; left: 0; right: 0; bottom: -6rem; pointer-events: none; }
.balloons span { position: absolute; font-size: 3rem; animation: rise 4s ease-in forwards; }
@keyframes rise { to { transform: translateY(-120vh); } }
</style>
</head>
<body>
<aside>
  <h3>About App</h3>
  <div class="side-info">{{.Sidebar.AboutApp}}</div>
  <h3>Get Datasets</h3>
  {{if .Sidebar.DatasetsURL}}<a href="{{.Sidebar.DatasetsURL}}">Common ML Dataset Repo</a>{{end}}
  <h3>About</h3>
  <div class="side-info">{{.Sidebar.About}}</div>
  {{range .Sidebar.Footer}}<pre>{{.}}</pre>{{end}}
</aside>
<main>
<form method="get" action="/" id="app">
{{range .Blocks}}
{{- if eq .Kind "title"}}<h1>{{.Text}}</h1>
{{- else if eq .Kind "subheader"}}<h2>{{.Text}}</h2>
{{- else if eq .Kind "banner"}}<div class="banner">{{.Text}}</div>
{{- else if eq .Kind "info"}}<div class="info">{{.Text}}</div>
{{- else if eq .Kind "success"}}<div class="success">{{.Text}}</div>
{{- else if eq .Kind "error"}}<div class="error">{{.Text}}</div>
{{- else if eq .Kind "text"}}<pre class="text">{{.Text}}</pre>
{{- else if eq .Kind "value"}}<div class="value">{{.Text}}</div>
{{- else if eq .Kind "list"}}<ol start="0">{{range .Items}}<li>{{.}}</li>{{end}}</ol>
{{- else if eq .Kind "table"}}
  {{- if emptyTable .Rows}}<p><em>Empty table</em></p>
  {{- else}}<table>
    <tr>{{range index .Rows 0}}<th>{{.}}</th>{{end}}</tr>
    {{- range $i, $row := .Rows}}{{if $i}}
    <tr>{{range $row}}<td>{{.}}</td>{{end}}</tr>{{end}}{{end}}
  </table>{{end}}
{{- else if eq .Kind "image"}}<img class="chart" alt="{{.Text}}" src="{{pngURL .Image}}">
{{- else if eq .Kind "balloons"}}<div class="balloons">{{range balloonSlots}}<span style="left: {{.}}0%; animation-delay: {{.}}00ms">&#127880;</span>{{end}}</div>
{{- else if eq .Kind "control"}}{{with .Control}}
<div class="control">
  {{- if eq .Type "checkbox"}}
  <label><input type="checkbox" name="{{.Name}}" value="true"{{if .Checked}} checked{{end}} onchange="this.form.submit()"> {{.Label}}</label>
  {{- else if eq .Type "button"}}
  <button type="submit" name="{{.Name}}" value="true">{{.Label}}</button>
  {{- else if eq .Type "select"}}
  <label class="title" for="{{.Name}}">{{.Label}}</label>
  <select id="{{.Name}}" name="{{.Name}}" onchange="this.form.submit()">
    {{- $c := .}}{{range .Options}}
    <option value="{{.}}"{{if $c.Selected .}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  {{- else if eq .Type "multiselect"}}
  <label class="title" for="{{.Name}}">{{.Label}}</label>
  <select id="{{.Name}}" name="{{.Name}}" multiple onchange="this.form.submit()">
    {{- $c := .}}{{range .Options}}
    <option value="{{.}}"{{if $c.Selected .}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  {{- else if eq .Type "number"}}
  <label class="title" for="{{.Name}}">{{.Label}}</label>
  <input type="number" id="{{.Name}}" name="{{.Name}}" min="{{.Min}}" step="1" value="{{.Value}}" onchange="this.form.submit()">
  {{- else if eq .Type "radio"}}
  <span class="title">{{.Label}}</span>
  {{- $c := .}}{{range .Options}}
  <label><input type="radio" name="{{$c.Name}}" value="{{.}}"{{if $c.Selected .}} checked{{end}} onchange="this.form.submit()"> {{.}}</label>{{end}}
  {{- end}}
</div>{{end}}
{{- end}}
{{end}}
</form>
</main>
</body>
</html>
`
