package main

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
)

// guardedWrites lists repo write methods that only an aggregate may call.
// A service calling one of these directly bypasses the aggregate's
// transaction and invariant checks.
var guardedWrites = map[string]map[string]string{
	"LessonRepo":           {"UpdateOrder": "LessonOrderAggregate"},
	"LessonCompletionRepo": {"CreateIgnoreDuplicates": "CompletionAggregate"},
}

var aggregateWrites = map[string]bool{
	"ReorderLessons":     true,
	"MarkLessonComplete": true,
}

type violation struct {
	Struct    string `json:"struct"`
	Method    string `json:"method"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Call      string `json:"call"`
	Aggregate string `json:"aggregate"`
}

type methodStats struct {
	Struct          string   `json:"struct"`
	Method          string   `json:"method"`
	File            string   `json:"file"`
	Line            int      `json:"line"`
	AggregateWrites []string `json:"aggregate_writes,omitempty"`
}

type report struct {
	Violations      []violation   `json:"violations"`
	AggregateUsers  []methodStats `json:"aggregate_users"`
	ServiceStructs  []string      `json:"service_structs"`
	MethodsScanned  int           `json:"methods_scanned"`
	AggregateCalls  int           `json:"aggregate_calls"`
	GuardedRepoRefs int           `json:"guarded_repo_refs"`
}

type structFields struct {
	repos      map[string]string // field -> repo type
	aggregates map[string]string // field -> aggregate type
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{repos: map[string]string{}, aggregates: map[string]string{}}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				for _, name := range field.Names {
					switch {
					case pkgIdent.Name == "repos" && strings.HasSuffix(sel.Sel.Name, "Repo"):
						sf.repos[name.Name] = sel.Sel.Name
					case pkgIdent.Name == "domainagg" && strings.HasSuffix(sel.Sel.Name, "Aggregate"):
						sf.aggregates[name.Name] = sel.Sel.Name
					}
				}
			}
			if len(sf.repos) > 0 || len(sf.aggregates) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func auditFile(fset *token.FileSet, file *ast.File, relFile string, fields map[string]structFields, r *report) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		sf, ok := fields[recvType]
		if !ok {
			continue
		}
		r.MethodsScanned++
		aggSeen := map[string]bool{}

		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fnSel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			base, ok := rcvSel.X.(*ast.Ident)
			if !ok || base.Name != recvName {
				return true
			}
			field, method := rcvSel.Sel.Name, fnSel.Sel.Name
			if repoType, ok := sf.repos[field]; ok {
				if owner, guarded := guardedWrites[repoType][method]; guarded {
					r.Violations = append(r.Violations, violation{
						Struct:    recvType,
						Method:    fd.Name.Name,
						File:      filepath.ToSlash(relFile),
						Line:      fset.Position(call.Pos()).Line,
						Call:      field + "." + method,
						Aggregate: owner,
					})
				}
			}
			if _, ok := sf.aggregates[field]; ok && aggregateWrites[method] {
				r.AggregateCalls++
				aggSeen[method] = true
			}
			return true
		})

		if len(aggSeen) > 0 {
			r.AggregateUsers = append(r.AggregateUsers, methodStats{
				Struct:          recvType,
				Method:          fd.Name.Name,
				File:            filepath.ToSlash(relFile),
				Line:            fset.Position(fd.Pos()).Line,
				AggregateWrites: sortedKeys(aggSeen),
			})
		}
	}
}

func finish(fields map[string]structFields, r *report) {
	structs := map[string]bool{}
	for name, sf := range fields {
		structs[name] = true
		for _, repoType := range sf.repos {
			if _, ok := guardedWrites[repoType]; ok {
				r.GuardedRepoRefs++
			}
		}
	}
	r.ServiceStructs = sortedKeys(structs)
	sort.Slice(r.Violations, func(i, j int) bool {
		if r.Violations[i].File == r.Violations[j].File {
			return r.Violations[i].Line < r.Violations[j].Line
		}
		return r.Violations[i].File < r.Violations[j].File
	})
	sort.Slice(r.AggregateUsers, func(i, j int) bool {
		if r.AggregateUsers[i].File == r.AggregateUsers[j].File {
			return r.AggregateUsers[i].Line < r.AggregateUsers[j].Line
		}
		return r.AggregateUsers[i].File < r.AggregateUsers[j].File
	})
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	recvName := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return recvName, id.Name
		}
	case *ast.Ident:
		return recvName, t.Name
	}
	return "", ""
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
