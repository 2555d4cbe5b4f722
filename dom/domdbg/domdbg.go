/*
Package domdbg implements helpers to debug element trees with animations.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package domdbg

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"sort"
	"testing"
	"text/template"

	"github.com/npillmayer/cssanim/cssanimations"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/xlab/treeprint"
)

// DefaultProperties are the properties listed for an element if the client
// does not provide a list.
var DefaultProperties = []string{
	"display",
	"opacity",
	"transform",
	"animation-name",
	"transition-property",
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname   string
	Properties []string
	NodeTmpl   *template.Template
	EdgeTmpl   *template.Template
	StyleTmpl  *template.Template
	AnimTmpl   *template.Template
}

// ToGraphViz outputs a diagram for an element tree in GraphViz (DOT) format.
// Each element is annotated with the computed values of properties and
// with the animations and transitions it runs, as known to doc.
// doc may be nil. If properties is nil, DefaultProperties are shown.
func ToGraphViz(root *dom.Element, doc *cssanimations.Document, w io.Writer, properties []string) {
	tmpl := template.Must(template.New("dom").Parse(graphHeadTmpl))
	gparams := graphParamsType{Fontname: "Helvetica", Properties: properties}
	if properties == nil {
		gparams.Properties = DefaultProperties
	}
	gparams.NodeTmpl = template.Must(template.New("domnode").Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StyleTmpl = template.Must(template.New("style").Parse(styleTmpl))
	gparams.AnimTmpl = template.Must(template.New("anims").Parse(animTmpl))
	if err := tmpl.Execute(w, gparams); err != nil {
		panic(err)
	}
	dict := make(map[*dom.Element]string, 256)
	nodes(root, doc, w, dict, &gparams)
	w.Write([]byte("}\n"))
}

// Dotty is a helper for testing. Given an element tree and a testing.T, it
// will create a GraphViz image of the tree and write it to a file in the
// current folder, choosing a unique file name. The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(root *dom.Element, doc *cssanimations.Document, t *testing.T) {
	tmpfile, err := ioutil.TempFile(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing element digraph to %s\n", tmpfile.Name())
	ToGraphViz(root, doc, tmpfile, nil)
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing element tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	E    *dom.Element
	Name string
}

type styleBox struct {
	Name       string
	Properties []style.KeyValue
}

type animBox struct {
	Name  string
	Lines []string
}

func nodes(e *dom.Element, doc *cssanimations.Document, w io.Writer, dict map[*dom.Element]string,
	gparams *graphParamsType) {
	//
	name := nodeName(e, dict)
	if err := gparams.NodeTmpl.Execute(w, &node{e, name}); err != nil {
		panic(err)
	}
	if cs := e.ComputedStyle(); cs != nil {
		box := styleBox{Name: name}
		for _, key := range gparams.Properties {
			box.Properties = append(box.Properties, style.KeyValue{Key: key, Value: cs.Get(key)})
		}
		if err := gparams.StyleTmpl.Execute(w, box); err != nil {
			panic(err)
		}
	}
	if lines := animationLines(doc, e); len(lines) > 0 {
		if err := gparams.AnimTmpl.Execute(w, animBox{Name: name, Lines: lines}); err != nil {
			panic(err)
		}
	}
	children := e.ChildElements()
	if sr := e.ShadowRoot(); sr != nil {
		children = append([]*dom.Element{sr}, children...)
	}
	for _, ch := range children {
		nodes(ch, doc, w, dict, gparams)
		edge := []node{{e, name}, {ch, nodeName(ch, dict)}}
		if err := gparams.EdgeTmpl.Execute(w, edge); err != nil {
			panic(err)
		}
	}
}

func nodeName(e *dom.Element, dict map[*dom.Element]string) string {
	name := dict[e]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[e] = name
	}
	return name
}

// animationLines describes the animations and transitions of an element,
// animations in list order and transitions ordered by property.
func animationLines(doc *cssanimations.Document, e *dom.Element) []string {
	if doc == nil {
		return nil
	}
	ca := doc.Lookup(e)
	if ca == nil {
		return nil
	}
	var lines []string
	for _, ra := range ca.RunningAnimations() {
		lines = append(lines, fmt.Sprintf("@%s %s", ra.Name, ra.Animation.CalculateAnimationPlayState()))
	}
	transitions := ca.Transitions()
	handles := make([]style.PropertyHandle, 0, len(transitions))
	for h := range transitions {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Name() < handles[j].Name() })
	for _, h := range handles {
		rt := transitions[h]
		lines = append(lines, fmt.Sprintf("%s: %s → %s %s", h, rt.From, rt.To,
			rt.Animation.CalculateAnimationPlayState()))
	}
	return lines
}

// Print returns a textual tree of the elements which have animation state
// in doc, together with their ancestors.
func Print(doc *cssanimations.Document) string {
	t := treeprint.New()
	t.SetValue(label(doc.Root()))
	printChildren(doc, doc.Root(), t)
	return t.String()
}

func printChildren(doc *cssanimations.Document, e *dom.Element, t treeprint.Tree) bool {
	found := false
	for _, ch := range e.FlatTreeChildren() {
		lines := animationLines(doc, ch)
		sub := treeprint.New()
		sub.SetValue(label(ch))
		for _, l := range lines {
			sub.AddNode(l)
		}
		if printChildren(doc, ch, sub) || len(lines) > 0 {
			found = true
			t.AddBranch(sub)
		}
	}
	return found
}

func label(e *dom.Element) string {
	if id := e.ID(); id != "" {
		return fmt.Sprintf("%s#%s", e.Tag(), id)
	}
	return e.String()
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ .Name }}	[ label={{ printf "%q" .E.String }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
`

const domEdgeTmpl = `{{ (index . 0).Name }} -> {{ (index . 1).Name }} [weight=1] ;
`

const styleTmpl = `{{ .Name }}_style [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
{{ .Name }} -> {{ .Name }}_style [dir=none weight=1 style="dashed"] ;
`

const animTmpl = `{{ .Name }}_anim [ style="filled" fillcolor="lightsalmon" shape="note" fontsize=12
    label="{{ range .Lines }}{{ html . }}\l{{ end }}" ] ;
{{ .Name }} -> {{ .Name }}_anim [dir=none weight=1 style="dotted"] ;
`
