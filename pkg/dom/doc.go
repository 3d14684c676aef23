// Package dom provides the live document tree fuse renders into.
//
// Go has no browser DOM, so this package implements the subset of DOM
// semantics the renderer depends on:
//
//   - a mutable node tree with parent and sibling links
//   - InsertBefore, AppendChild, RemoveChild and ReplaceChildren, including
//     fragment insertion and moving already-attached nodes
//   - attributes versus properties, with SVG elements exposing reflected
//     properties as read-only
//   - event listeners with bubbling dispatch
//
// Every change to the tree is reported to the document's observers as a
// Mutation. The live server forwards these records to a thin browser
// client; tests use them to assert exactly which nodes were touched.
//
//	doc := dom.NewDocument()
//	stop := doc.Observe(func(m dom.Mutation) { fmt.Println(m) })
//	defer stop()
//
//	p := doc.CreateElement("p")
//	_ = p.AppendChild(doc.CreateTextNode("hello"))
//	_ = doc.Body().AppendChild(p)
//
//	fmt.Println(dom.OuterHTML(doc.Body())) // <body><p>hello</p></body>
//
// A Document is not safe for concurrent use.
package dom
