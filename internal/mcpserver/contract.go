package mcpserver

// ImportFormatContract describes the payloads import_bookmarks accepts.
const ImportFormatContract = `# Raido Import Formats

import_bookmarks accepts two payload formats. Pass the file content in
` + "`content`" + `, or a base64 data URI (` + "`data:text/html;base64,...`" + `) for
binary-unsafe transports.

## 1. Browser export (Netscape bookmark file)

The HTML file written by Chrome, Firefox, Edge and Safari "Export bookmarks".

` + "```" + `html
<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://example.com/" TAGS="docs,ref">Example</A>
    </DL><p>
</DL><p>
` + "```" + `

- Every ` + "`<H3>`" + ` becomes a folder; the ` + "`<DL>`" + ` that follows holds its content.
- Folders are matched case-insensitively by name under the same parent, so
  re-importing the same file never duplicates folders.
- Anchors whose URL is already stored are skipped.
- A blank anchor title falls back to the URL. ` + "`TAGS`" + ` is split on commas.

## 2. JSON array

` + "```" + `json
[
  {"url": "https://example.com/", "title": "Example", "folder_id": "", "tags": ["ref"]}
]
` + "```" + `

- ` + "`url`" + ` is required; records without it are skipped.
- ` + "`title`" + ` falls back to ` + "`name`" + `, then to the URL.
- Records are appended as-is: no folder creation and no URL de-duplication.

## Errors

- "import file could not be parsed": neither a non-empty JSON array nor markup.
- "no importable bookmarks found": nothing new was found; nothing is saved.
`
