// Package dashboard serves the entity counts behind the overview page.
// Counters are computed with plain aggregate queries and cached for a
// minute; staleness at that horizon is acceptable for a summary view.
package dashboard
