/*
Package templite implements the small template language used to render
quiescent's pages.

A template is plain text interspersed with output tags and action tags.

	{{ name }}
		Emits the string form of name.
	{{ post.title }}
		Emits the title of post. Each dotted step looks for an attribute
		(a method, or a struct field by `templite` tag, exact name or its
		CamelCase form, so body_markup finds BodyMarkup), then for a keyed
		item (map key or slice index). A function found by either route is
		called and its result used; one that needs arguments is an error.
	{% if expr %} ... {% endif %}
		Includes the body when expr is truthy. There is no else.
	{% for name in expr %} ... {% endfor %}
		Renders the body once per element of expr with name bound to the
		element. name shadows any context value of the same name.

Text outside of tags is copied verbatim; no whitespace is trimmed and
nothing is escaped.

Templates are compiled once by Compile and may then be rendered any number
of times, from any number of goroutines, with different contexts.
*/
package templite
