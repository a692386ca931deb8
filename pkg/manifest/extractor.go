// Package manifest extracts a typed description of an application from its
// AndroidManifest.xml, in either textual or binary form.
package manifest

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strconv"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/axml"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

const androidNS = "http://schemas.android.com/apk/res/android"

// Options control how much of the manifest is extracted. Without Extended,
// only the package name and version are read.
type Options struct {
	Extended bool
}

// FromAXML decodes binary XML first, then extracts from the textual form.
func FromAXML(data []byte, file models.File, opts Options) (*models.Manifest, error) {
	text, err := axml.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromXML(text, file, opts)
}

// FromXML extracts a Manifest from a textual XML document.
func FromXML(data []byte, file models.File, opts Options) (*models.Manifest, error) {
	root, err := parseDOM(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindManifestDecode, "manifest is not well-formed XML")
	}
	if root.local() != "manifest" {
		return nil, errors.Newf(errors.KindManifestDecode, "root element is %q, expected manifest", root.local())
	}

	m := &models.Manifest{File: file}
	m.Package, _ = root.attr("package")
	if m.Package == "" {
		return nil, errors.New(errors.KindManifestDecode, "manifest declares no package name")
	}

	if raw, ok := root.attr("versionCode"); ok {
		if code, err := strconv.ParseInt(raw, 10, 64); err == nil {
			m.Version.Code = &code
		}
	}
	m.Version.Name, _ = root.attr("versionName")

	if !opts.Extended {
		return m, nil
	}

	m.SDK = extractSDK(root)
	m.Permissions = extractPermissions(root)

	if app := root.firstChild("application"); app != nil {
		for _, child := range app.children {
			switch child.local() {
			case "activity":
				m.Activities = append(m.Activities, extractActivity(child))
			case "service":
				m.Services = append(m.Services, extractService(child))
			case "receiver":
				m.Receivers = append(m.Receivers, extractReceiver(child))
			}
		}
	}
	return m, nil
}

func extractSDK(root *node) *models.SDK {
	sdk := &models.SDK{Min: "1"}
	if uses := root.firstChild("uses-sdk"); uses != nil {
		if v, ok := uses.attr("minSdkVersion"); ok {
			sdk.Min = v
		}
		if v, ok := uses.attr("targetSdkVersion"); ok {
			sdk.Target = v
		}
		if v, ok := uses.attr("maxSdkVersion"); ok {
			sdk.Max = v
		}
	}
	if sdk.Target == "" {
		sdk.Target = sdk.Min
	}
	return sdk
}

func extractPermissions(root *node) []string {
	var perms []string
	for _, child := range root.children {
		if child.local() != "uses-permission" {
			continue
		}
		if name, ok := child.attr("name"); ok {
			perms = append(perms, name)
		}
	}
	sort.Strings(perms)
	return perms
}

func extractActivity(n *node) models.Activity {
	a := models.Activity{}
	a.Name, _ = n.attr("name")
	a.ParentActivityName, _ = n.attr("parentActivityName")
	a.LaunchMode, _ = n.attr("launchMode")
	a.NoHistory = boolAttr(n, "noHistory")
	a.MetaData = extractMetaData(n)
	a.IntentFilters = extractIntentFilters(n)
	return a
}

func extractService(n *node) models.Service {
	s := models.Service{}
	s.Name, _ = n.attr("name")
	s.Enabled = boolAttr(n, "enabled")
	s.Exported = boolAttr(n, "exported")
	s.IsolatedProcess = boolAttr(n, "isolatedProcess")
	s.Process, _ = n.attr("process")
	s.MetaData = extractMetaData(n)
	s.IntentFilters = extractIntentFilters(n)
	return s
}

func extractReceiver(n *node) models.Receiver {
	r := models.Receiver{}
	r.Name, _ = n.attr("name")
	r.Enabled = boolAttr(n, "enabled")
	r.Exported = boolAttr(n, "exported")
	r.MetaData = extractMetaData(n)
	r.IntentFilters = extractIntentFilters(n)
	return r
}

func extractMetaData(n *node) []models.MetaData {
	var out []models.MetaData
	for _, child := range n.children {
		if child.local() != "meta-data" {
			continue
		}
		md := models.MetaData{}
		md.Name, _ = child.attr("name")
		md.Value, _ = child.attr("value")
		out = append(out, md)
	}
	return out
}

func extractIntentFilters(n *node) []models.IntentFilter {
	var out []models.IntentFilter
	for _, child := range n.children {
		if child.local() != "intent-filter" {
			continue
		}
		filter := models.IntentFilter{}
		filter.Priority, _ = child.attr("priority")
		for _, sub := range child.children {
			switch sub.local() {
			case "action":
				if name, ok := sub.attr("name"); ok {
					filter.Actions = append(filter.Actions, name)
				}
			case "category":
				if name, ok := sub.attr("name"); ok {
					filter.Categories = append(filter.Categories, name)
				}
			case "data":
				data := models.IntentData{}
				data.Scheme, _ = sub.attr("scheme")
				data.MimeType, _ = sub.attr("mimeType")
				filter.Data = append(filter.Data, data)
			}
		}
		out = append(out, filter)
	}
	return out
}

func boolAttr(n *node, name string) *bool {
	raw, ok := n.attr(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// node is a minimal DOM element. Attribute lookup tolerates both resolved
// android namespace URIs and bare prefixes so that plain XML fixtures and
// decoded binary XML behave the same.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*node
}

func (n *node) local() string {
	return n.name.Local
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local != local {
			continue
		}
		switch a.Name.Space {
		case "", "android", androidNS:
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) firstChild(local string) *node {
	for _, child := range n.children {
		if child.local() == local {
			return child
		}
	}
	return nil
}

func parseDOM(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var stack []*node
	var root *node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New(errors.KindManifestDecode, "document has multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New(errors.KindManifestDecode, "unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, errors.New(errors.KindManifestDecode, "document has no root element")
	}
	if len(stack) != 0 {
		return nil, errors.New(errors.KindManifestDecode, "document has unclosed elements")
	}
	return root, nil
}
