// Package render binds reactive values to live dom nodes.
//
// There is no virtual tree and no diffing pass. H builds real nodes once;
// every dynamic property or child is wrapped in its own effect that writes
// straight to the node it decorates when the signals it read change.
//
// # Building trees
//
// H takes a Type, a list of props and children. All three are tagged unions
// resolved when the tree is built:
//
//	r := render.New(doc, rt)
//	count := reactive.NewSignal(rt, 0)
//
//	button := r.H(render.Tag("button"),
//	    render.Props{
//	        {Key: "onClick", Value: render.Handler(func(*dom.Event) {
//	            count.Update(func(n int) int { return n + 1 })
//	        })},
//	        {Key: "class", Value: render.Reactive(func() any {
//	            if count.Get() > 0 {
//	                return "active"
//	            }
//	            return "idle"
//	        })},
//	    },
//	    render.Dynamic(func() render.Child {
//	        return render.Textf("clicked %d times", count.Get())
//	    }),
//	)
//
//	_ = r.Render(button, doc.Body())
//
// El offers the same through variadic helpers:
//
//	r.El("button", render.OnClick(inc), render.ClassFunc(cls), render.TextFunc(label))
//
// # Bindings
//
// Every listener and effect created for a node is recorded against that
// node. Dispose and Remove run those disposers for a whole subtree, depth
// first, so nested dynamic content never outlives its host.
//
// # Lists
//
// For renders a keyed list. Nodes keep their identity across reorders and
// only nodes whose predecessor changed are moved.
package render
