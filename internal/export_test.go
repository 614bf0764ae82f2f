package internal

var ChiPattern = chiPattern
