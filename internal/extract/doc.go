// Package extract recovers event records from heterogeneous web pages.
//
// A page is tried against three strategies in order, and the first one that
// yields anything wins: JSON-LD event graphs (including EventSeries with
// inherited defaults), embedded .ics calendar links, and finally free-text
// date matching against the page title and body.
package extract
